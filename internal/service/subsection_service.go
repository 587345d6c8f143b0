package service

import (
	"context"
	"encoding/json"
	"time"

	"lexstudy_backend/internal/model"
	"lexstudy_backend/internal/repository"
	"lexstudy_backend/internal/util"
	"lexstudy_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const subsectionsKeyPrefix = "lesson_subsections:"

type SubsectionService struct {
	SubsectionRepo *repository.SubsectionRepository
	LessonRepo     *repository.LessonRepository
	ProgressRepo   *repository.ProgressRepository
	Redis          *redis.Client
	CacheTTL       time.Duration
}

func NewSubsectionService(
	subsectionRepo *repository.SubsectionRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *SubsectionService {
	return &SubsectionService{
		SubsectionRepo: subsectionRepo,
		LessonRepo:     lessonRepo,
		ProgressRepo:   progressRepo,
		Redis:          rdb,
		CacheTTL:       cacheTTL,
	}
}

// ByLesson 返回课程的有序小节列表，userID 非 0 时附带该用户的完成标记
func (s *SubsectionService) ByLesson(ctx context.Context, userID uint, lessonID string) ([]model.Subsection, error) {
	subs, err := s.cached(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if userID == 0 || len(subs) == 0 {
		return subs, nil
	}

	records, err := s.ProgressRepo.FindByUserLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.SubsectionID] = r.Completed
	}
	for i := range subs {
		subs[i].Completed = done[subs[i].ID]
	}
	return subs, nil
}

func (s *SubsectionService) Get(ctx context.Context, id string) (*model.Subsection, error) {
	return s.SubsectionRepo.FindByID(ctx, id)
}

func (s *SubsectionService) cached(ctx context.Context, lessonID string) ([]model.Subsection, error) {
	key := subsectionsKeyPrefix + lessonID
	if s.Redis != nil && s.CacheTTL > 0 {
		val, err := s.Redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var subs []model.Subsection
			if jsonErr := json.Unmarshal(val, &subs); jsonErr == nil {
				return subs, nil
			}
			logger.Log.Warn("discarding corrupt subsection cache entry", zap.String("key", key))
		case err != redis.Nil:
			logger.Log.Warn("subsection cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	exists, err := s.LessonRepo.Exists(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrLessonNotFound
	}
	subs, err := s.SubsectionRepo.FindByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		if val, err := json.Marshal(subs); err == nil {
			if err := s.Redis.Set(ctx, key, val, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("subsection cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return subs, nil
}

// Invalidate 删除课程的小节缓存
func (s *SubsectionService) Invalidate(ctx context.Context, lessonID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, subsectionsKeyPrefix+lessonID).Err(); err != nil {
		logger.Log.Warn("subsection cache invalidate failed", zap.String("lessonId", lessonID), zap.Error(err))
	}
}
