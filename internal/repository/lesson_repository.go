package repository

import (
	"context"
	"errors"

	"lexstudy_backend/internal/model"
	"lexstudy_backend/internal/util"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

// FindByID 返回课程及其小节数量，不存在时返回 util.ErrLessonNotFound
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.Subsection{}).Where("lesson_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	n := int(count)
	lesson.SubsectionCount = &n
	return &lesson, nil
}

// List 按 order 排序，未设置 order 的排在最后，同 order 按标题排序
func (r *LessonRepository) List(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Order("CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END").
		Order("sort_order ASC").
		Order("title ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).Count(&n).Error
	return n, err
}

func (r *LessonRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
