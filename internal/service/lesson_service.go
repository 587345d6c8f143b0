package service

import (
	"context"

	"lexstudy_backend/internal/model"
	"lexstudy_backend/internal/repository"
)

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	SubsectionRepo *repository.SubsectionRepository
}

func NewLessonService(lessonRepo *repository.LessonRepository, subsectionRepo *repository.SubsectionRepository) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		SubsectionRepo: subsectionRepo,
	}
}

// List 返回全部课程并附带小节数量
func (s *LessonService) List(ctx context.Context) ([]model.Lesson, error) {
	lessons, err := s.LessonRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.SubsectionRepo.CountByLesson(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		n := counts[lessons[i].ID]
		lessons[i].SubsectionCount = &n
	}
	return lessons, nil
}

func (s *LessonService) Get(ctx context.Context, id string) (*model.Lesson, error) {
	return s.LessonRepo.FindByID(ctx, id)
}
