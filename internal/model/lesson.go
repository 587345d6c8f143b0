package model

// Lesson 课程
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title             string       `gorm:"size:255;not null" json:"title"`
	Description       string       `gorm:"type:text" json:"description,omitempty"`
	Order             *int         `gorm:"column:sort_order" json:"order,omitempty"`
	EstimatedDuration *int         `json:"estimatedDuration,omitempty"` // 分钟
	Subsections       []Subsection `gorm:"foreignKey:LessonID" json:"-"`

	SubsectionCount *int `gorm:"-" json:"subsectionCount,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
