package service

import (
	"context"

	"lexstudy_backend/internal/model"
	"lexstudy_backend/internal/repository"
	"lexstudy_backend/internal/util"
)

type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	SubsectionRepo *repository.SubsectionRepository
	LessonRepo     *repository.LessonRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	subsectionRepo *repository.SubsectionRepository,
	lessonRepo *repository.LessonRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		SubsectionRepo: subsectionRepo,
		LessonRepo:     lessonRepo,
	}
}

// ProgressOverview 学习总览
// swagger:model ProgressOverview
type ProgressOverview struct {
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
	InProgress       int `json:"inProgress"`
}

func (s *ProgressService) ForLesson(ctx context.Context, userID uint, lessonID string) ([]model.SubsectionProgress, error) {
	return s.ProgressRepo.FindByUserLesson(ctx, userID, lessonID)
}

// MarkComplete 校验小节属于该课程后标记完成
func (s *ProgressService) MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error {
	sub, err := s.SubsectionRepo.FindByID(ctx, subsectionID)
	if err != nil {
		return err
	}
	if sub.LessonID != lessonID {
		return util.ErrSubsectionNotFound
	}
	return s.ProgressRepo.MarkComplete(ctx, userID, lessonID, subsectionID)
}

func (s *ProgressService) MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error {
	return s.ProgressRepo.MarkIncomplete(ctx, userID, subsectionID)
}

// Overview 课程全部小节完成记为已完成，至少完成一个记为进行中
func (s *ProgressService) Overview(ctx context.Context, userID uint) (*ProgressOverview, error) {
	total, err := s.LessonRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	subsections, err := s.SubsectionRepo.CountByLesson(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CompletedByLesson(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &ProgressOverview{TotalLessons: int(total)}
	for lessonID, done := range completed {
		switch {
		case done <= 0:
		case done >= subsections[lessonID]:
			overview.CompletedLessons++
		default:
			overview.InProgress++
		}
	}
	return overview, nil
}
