package repository

import (
	"context"
	"errors"

	"lexstudy_backend/internal/model"
	"lexstudy_backend/internal/util"

	"gorm.io/gorm"
)

type SubsectionRepository struct {
	DB *gorm.DB
}

func NewSubsectionRepository(db *gorm.DB) *SubsectionRepository {
	return &SubsectionRepository{DB: db}
}

func (r *SubsectionRepository) Create(ctx context.Context, sub *model.Subsection) error {
	return r.DB.WithContext(ctx).Create(sub).Error
}

// FindByLesson 按 order 返回课程下的全部小节
func (r *SubsectionRepository) FindByLesson(ctx context.Context, lessonID string) ([]model.Subsection, error) {
	var subs []model.Subsection
	err := r.DB.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("sort_order ASC").
		Find(&subs).Error
	return subs, err
}

func (r *SubsectionRepository) FindByID(ctx context.Context, id string) (*model.Subsection, error) {
	var sub model.Subsection
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubsectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountByLesson 返回每个课程的小节数量
func (r *SubsectionRepository) CountByLesson(ctx context.Context) (map[string]int, error) {
	type row struct {
		LessonID string
		Total    int
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&model.Subsection{}).
		Select("lesson_id, COUNT(*) AS total").
		Group("lesson_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, c := range rows {
		counts[c.LessonID] = c.Total
	}
	return counts, nil
}
