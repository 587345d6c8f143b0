package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lexstudy_backend/internal/util"
	"lexstudy_backend/internal/viewer"
)

// ViewerSource 让查看器直接读取本服务的数据库
type ViewerSource struct {
	LessonSvc     *LessonService
	SubsectionSvc *SubsectionService
	ProgressSvc   *ProgressService
}

func NewViewerSource(lessons *LessonService, subsections *SubsectionService, progress *ProgressService) *ViewerSource {
	return &ViewerSource{LessonSvc: lessons, SubsectionSvc: subsections, ProgressSvc: progress}
}

var _ viewer.Source = (*ViewerSource)(nil)

func (s *ViewerSource) Lesson(ctx context.Context, lessonID string) (*viewer.Lesson, error) {
	l, err := s.LessonSvc.Get(ctx, lessonID)
	if errors.Is(err, util.ErrLessonNotFound) {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, viewer.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &viewer.Lesson{
		ID:                l.ID,
		Title:             l.Title,
		Description:       l.Description,
		Order:             l.Order,
		SubsectionCount:   l.SubsectionCount,
		EstimatedDuration: l.EstimatedDuration,
	}, nil
}

// Subsections 不带用户完成标记，完成状态由 Progress 单独提供
func (s *ViewerSource) Subsections(ctx context.Context, lessonID string) ([]viewer.SubsectionRecord, error) {
	subs, err := s.SubsectionSvc.ByLesson(ctx, 0, lessonID)
	if errors.Is(err, util.ErrLessonNotFound) {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, viewer.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	records := make([]viewer.SubsectionRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, viewer.SubsectionRecord{
			ID:       sub.ID,
			LessonID: sub.LessonID,
			Title:    sub.Title,
			Type:     sub.Type,
			Order:    sub.Order,
			Content:  json.RawMessage(sub.Content),
		})
	}
	return records, nil
}

func (s *ViewerSource) Progress(ctx context.Context, userID uint, lessonID string) ([]viewer.ProgressRecord, error) {
	rows, err := s.ProgressSvc.ForLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	records := make([]viewer.ProgressRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, viewer.ProgressRecord{
			SubsectionID: r.SubsectionID,
			Completed:    r.Completed,
			CompletedAt:  r.CompletedAt,
		})
	}
	return records, nil
}

func (s *ViewerSource) MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error {
	return s.ProgressSvc.MarkComplete(ctx, userID, lessonID, subsectionID)
}

func (s *ViewerSource) MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error {
	return s.ProgressSvc.MarkIncomplete(ctx, userID, subsectionID)
}
