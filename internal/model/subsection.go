package model

import (
	"lexstudy_backend/internal/content"

	"gorm.io/datatypes"
)

// Subsection 课程小节，Content 按 Type 存放不同结构的 JSON
// swagger:model Subsection
type Subsection struct {
	UUIDBase
	LessonID string         `gorm:"type:varchar(36);not null;index:idx_lesson_order,unique" json:"lessonId"`
	Title    string         `gorm:"size:255;not null" json:"title"`
	Type     content.Type   `gorm:"size:32;not null" json:"type"`
	Order    int            `gorm:"column:sort_order;not null;index:idx_lesson_order,unique" json:"order"`
	Content  datatypes.JSON `json:"content"`

	// 仅用于接口返回，由进度记录填充
	Completed bool `gorm:"-" json:"completed"`
}

func (Subsection) TableName() string {
	return "subsections"
}
