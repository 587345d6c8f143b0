package model

import (
	"time"
)

// SubsectionProgress 记录用户对小节的完成状态
// swagger:model SubsectionProgress
type SubsectionProgress struct {
	BaseModel
	UserID       uint       `gorm:"index:idx_user_subsection,unique;not null" json:"userId"`
	LessonID     string     `gorm:"type:varchar(36);index;not null" json:"lessonId"`
	SubsectionID string     `gorm:"type:varchar(36);index:idx_user_subsection,unique;not null" json:"subsectionId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (SubsectionProgress) TableName() string {
	return "subsection_progress"
}
