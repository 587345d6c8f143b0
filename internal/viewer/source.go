// Package viewer 课程详情视图：加载课程、小节与进度，小节切换，完成状态切换以及练习题作答
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lexstudy_backend/internal/content"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrToggleInFlight = errors.New("a progress update is already in flight")
	ErrInvalidAnswer  = errors.New("invalid answer")
	ErrNotReady       = errors.New("view is not ready")
	ErrViewClosed     = errors.New("view is closed")
	ErrViewNotFound   = errors.New("view not found")

	ErrUnknownSubsection = errors.New("subsection is not part of this lesson")
	ErrNothingToRetry    = errors.New("view has nothing to retry")
)

type Lesson struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Order             *int   `json:"order,omitempty"`
	SubsectionCount   *int   `json:"subsectionCount,omitempty"`
	EstimatedDuration *int   `json:"estimatedDuration,omitempty"`
}

// SubsectionRecord 接口返回的原始小节，内容尚未解析
type SubsectionRecord struct {
	ID       string          `json:"id"`
	LessonID string          `json:"lessonId"`
	Title    string          `json:"title"`
	Type     content.Type    `json:"type"`
	Order    int             `json:"order"`
	Content  json.RawMessage `json:"content,omitempty"`
}

type ProgressRecord struct {
	SubsectionID string     `json:"subsectionId"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// Subsection 内容已解析的小节
type Subsection struct {
	ID       string
	LessonID string
	Title    string
	Type     content.Type
	Order    int
	Payload  content.Payload
}

func decodeSubsection(r SubsectionRecord) Subsection {
	return Subsection{
		ID:       r.ID,
		LessonID: r.LessonID,
		Title:    r.Title,
		Type:     r.Type,
		Order:    r.Order,
		Payload:  content.Decode(r.Type, r.Content),
	}
}

type ProgressReader interface {
	Progress(ctx context.Context, userID uint, lessonID string) ([]ProgressRecord, error)
}

// ProgressWriter 保存完成状态，两个方法都是幂等的
type ProgressWriter interface {
	MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error
	MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error
}

// Source 视图需要的课程数据源，课程不存在时 Lesson 返回（可能被包装的）ErrNotFound
type Source interface {
	Lesson(ctx context.Context, lessonID string) (*Lesson, error)
	Subsections(ctx context.Context, lessonID string) ([]SubsectionRecord, error)
	ProgressReader
	ProgressWriter
}
