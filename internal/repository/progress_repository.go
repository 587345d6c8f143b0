package repository

import (
	"context"
	"errors"
	"time"

	"lexstudy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserLesson 获取用户在某课程下的全部小节进度记录
func (r *ProgressRepository) FindByUserLesson(ctx context.Context, userID uint, lessonID string) ([]model.SubsectionProgress, error) {
	var records []model.SubsectionProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Find(&records).Error
	return records, err
}

// MarkComplete 标记小节为已完成，重复调用不会产生多条记录
func (r *ProgressRepository) MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error {
	tx := r.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var existing model.SubsectionProgress
	err := tx.Where("user_id = ? AND subsection_id = ?", userID, subsectionID).First(&existing).Error

	now := time.Now()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 另一个视图可能同时插入了同一条记录，唯一索引冲突时改为更新
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.SubsectionProgress{
			UserID:       userID,
			LessonID:     lessonID,
			SubsectionID: subsectionID,
			Completed:    true,
			CompletedAt:  &now,
		})
		err = res.Error
		if err == nil && res.RowsAffected == 0 {
			err = tx.Unscoped().Model(&model.SubsectionProgress{}).
				Where("user_id = ? AND subsection_id = ?", userID, subsectionID).
				Where("(completed = ? OR deleted_at IS NOT NULL)", false).
				Updates(map[string]interface{}{
					"completed":    true,
					"completed_at": now,
					"lesson_id":    lessonID,
					"deleted_at":   nil,
				}).Error
		}
	case err == nil:
		if existing.Completed {
			// 已完成，保留原完成时间
			break
		}
		existing.Completed = true
		existing.CompletedAt = &now
		existing.LessonID = lessonID
		err = tx.Save(&existing).Error
	}

	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// MarkIncomplete 取消完成状态，记录不存在时视为成功
func (r *ProgressRepository) MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error {
	return r.DB.WithContext(ctx).Model(&model.SubsectionProgress{}).
		Where("user_id = ? AND subsection_id = ?", userID, subsectionID).
		Updates(map[string]interface{}{
			"completed":    false,
			"completed_at": nil,
		}).Error
}

// CompletedByLesson 统计用户每个课程下已完成的小节数
func (r *ProgressRepository) CompletedByLesson(ctx context.Context, userID uint) (map[string]int, error) {
	type row struct {
		LessonID string
		Total    int
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&model.SubsectionProgress{}).
		Select("subsection_progress.lesson_id AS lesson_id, COUNT(*) AS total").
		Joins("JOIN subsections ON subsections.id = subsection_progress.subsection_id AND subsections.deleted_at IS NULL").
		Where("subsection_progress.user_id = ? AND subsection_progress.completed = ?", userID, true).
		Group("subsection_progress.lesson_id").
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
