package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"lexstudy_backend/pkg/logger"
	"lexstudy_backend/pkg/monitoring"
	"lexstudy_backend/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	LockScope     LockScope
	RetainAnswers bool
}

// Controller 创建课程详情视图并从 Source 加载数据
type Controller struct {
	source Source

	mu   sync.RWMutex
	opts Options
}

func NewController(source Source, opts Options) *Controller {
	return &Controller{source: source, opts: opts}
}

func (c *Controller) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// SetOptions 只影响之后挂载或重新加载的视图
func (c *Controller) SetOptions(opts Options) {
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
}

// Mount 创建处于加载状态的视图
func (c *Controller) Mount(userID uint, lessonID string) *View {
	return newView(uuid.NewString(), userID, lessonID, c.Options().RetainAnswers)
}

// Open 创建视图并加载
func (c *Controller) Open(ctx context.Context, userID uint, lessonID string) *View {
	v := c.Mount(userID, lessonID)
	c.Load(ctx, v)
	return v
}

// Retry 重新加载未找到课程的视图
func (c *Controller) Retry(ctx context.Context, v *View) error {
	if v.Closed() {
		return ErrViewClosed
	}
	if v.Status() != StatusNotFound {
		return ErrNothingToRetry
	}
	c.Load(ctx, v)
	return nil
}

// Load 并发获取课程、小节和用户进度。进度可选，课程和小节必需，
// 任一失败视图进入未找到状态。加载完成前已关闭的视图不做修改
func (c *Controller) Load(ctx context.Context, v *View) {
	seq, ok := v.beginLoad()
	if !ok {
		return
	}

	ctx, span := tracing.Tracer.Start(ctx, "viewer.Load", trace.WithAttributes(
		attribute.String("lesson.id", v.LessonID),
		attribute.String("view.id", v.ID),
	))
	defer span.End()

	opts := c.Options()
	tracker := NewTracker(v.UserID, v.LessonID, c.source, NewRequestLock(), opts.LockScope)

	var (
		lesson  *Lesson
		records []SubsectionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		l, err := c.source.Lesson(gctx, v.LessonID)
		monitoring.ObserveSource("lesson", start, err)
		if err != nil {
			return err
		}
		if l == nil {
			return ErrNotFound
		}
		lesson = l
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		rs, err := c.source.Subsections(gctx, v.LessonID)
		monitoring.ObserveSource("subsections", start, err)
		records = rs
		return err
	})
	g.Go(func() error {
		tracker.Load(gctx, c.source)
		return nil
	})

	if err := g.Wait(); err != nil {
		tracker.Close()
		message := MessageLoadFailed
		if errors.Is(err, ErrNotFound) {
			message = MessageLessonNotFound
		}
		logger.Log.Warn("lesson detail load failed",
			zap.String("lessonId", v.LessonID),
			zap.String("viewId", v.ID),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, message)
		v.finishNotFound(seq, message)
		return
	}

	items := make([]Subsection, 0, len(records))
	for _, r := range records {
		items = append(items, decodeSubsection(r))
	}
	if !v.finishReady(seq, lesson, items, tracker) {
		tracker.Close()
		logger.Log.Debug("discarding late lesson load", zap.String("viewId", v.ID))
		return
	}
	span.SetAttributes(attribute.Int("subsections.count", len(items)))
}
