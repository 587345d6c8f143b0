package viewer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lexstudy_backend/pkg/logger"
	"lexstudy_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	writeTimeout = 15 * time.Second

	// NoticeSaveFailed 保存失败并回滚后提示一次
	NoticeSaveFailed = "Could not save your progress. Please try again."
)

// Tracker 某用户在一个课程下已完成的小节集合。切换先在本地生效再发送写入，
// 写入失败时回滚本地状态并在下一次快照中提示
type Tracker struct {
	userID   uint
	lessonID string
	writer   ProgressWriter
	lock     RequestLock
	scope    LockScope

	mu        sync.Mutex
	completed map[string]struct{}
	notice    string
	closed    bool

	writes sync.WaitGroup
}

func NewTracker(userID uint, lessonID string, writer ProgressWriter, lock RequestLock, scope LockScope) *Tracker {
	if lock == nil {
		lock = NewRequestLock()
	}
	return &Tracker{
		userID:    userID,
		lessonID:  lessonID,
		writer:    writer,
		lock:      lock,
		scope:     scope,
		completed: make(map[string]struct{}),
	}
}

// Load 用已保存的进度替换集合，获取失败时集合为空，只记录日志
func (t *Tracker) Load(ctx context.Context, reader ProgressReader) {
	start := time.Now()
	records, err := reader.Progress(ctx, t.userID, t.lessonID)
	monitoring.ObserveSource("progress", start, err)
	if err != nil {
		logger.Log.Warn("progress fetch failed, showing no completions",
			zap.String("lessonId", t.lessonID),
			zap.Uint("userId", t.userID),
			zap.Error(err),
		)
		records = nil
	}
	t.Seed(records)
}

// Seed 根据记录重建集合
func (t *Tracker) Seed(records []ProgressRecord) {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Completed && r.SubsectionID != "" {
			set[r.SubsectionID] = struct{}{}
		}
	}
	t.mu.Lock()
	t.completed = set
	t.mu.Unlock()
}

func (t *Tracker) IsComplete(subsectionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.completed[subsectionID]
	return ok
}

// Completed 返回排序后的已完成小节 ID
func (t *Tracker) Completed() []string {
	t.mu.Lock()
	ids := make([]string, 0, len(t.completed))
	for id := range t.completed {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// CountIn 只统计给定小节中已完成的数量，已删除小节的旧记录不计入
func (t *Tracker) CountIn(items []Subsection) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range items {
		if _, ok := t.completed[s.ID]; ok {
			n++
		}
	}
	return n
}

// Summary 格式化为 "已完成/总数"
func (t *Tracker) Summary(items []Subsection) string {
	return fmt.Sprintf("%d/%d", t.CountIn(items), len(items))
}

// Pending 未完成的进度写入
type Pending struct {
	// Completed 切换后的状态
	Completed bool

	done chan struct{}
	err  error
}

func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait 等待写入结束并返回错误
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}

// Toggle 切换小节完成状态，本地集合在发送写入前更新。
// 同一锁键的写入未完成时返回 ErrToggleInFlight，不做任何修改
func (t *Tracker) Toggle(ctx context.Context, subsectionID string) (*Pending, error) {
	key := t.scope.key(t.lessonID, subsectionID)
	if !t.lock.TryAcquire(key) {
		monitoring.ProgressToggles.WithLabelValues("rejected").Inc()
		return nil, ErrToggleInFlight
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.lock.Release(key)
		return nil, ErrViewClosed
	}
	_, wasComplete := t.completed[subsectionID]
	if wasComplete {
		delete(t.completed, subsectionID)
	} else {
		t.completed[subsectionID] = struct{}{}
	}
	t.mu.Unlock()
	monitoring.ProgressToggles.WithLabelValues("accepted").Inc()

	p := &Pending{Completed: !wasComplete, done: make(chan struct{})}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)

	t.writes.Add(1)
	go func() {
		defer t.writes.Done()
		defer close(p.done)
		defer t.lock.Release(key)
		defer cancel()

		var err error
		if wasComplete {
			err = t.writer.MarkIncomplete(writeCtx, t.userID, subsectionID)
		} else {
			err = t.writer.MarkComplete(writeCtx, t.userID, t.lessonID, subsectionID)
		}
		if err == nil {
			return
		}

		monitoring.ProgressToggles.WithLabelValues("failed").Inc()
		logger.Log.Error("progress write failed, reverting",
			zap.String("lessonId", t.lessonID),
			zap.String("subsectionId", subsectionID),
			zap.Bool("complete", !wasComplete),
			zap.Error(err),
		)
		p.err = err
		t.revert(subsectionID, wasComplete)
	}()

	return p, nil
}

func (t *Tracker) revert(subsectionID string, wasComplete bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if wasComplete {
		t.completed[subsectionID] = struct{}{}
	} else {
		delete(t.completed, subsectionID)
	}
	t.notice = NoticeSaveFailed
}

// TakeNotice 取出并清除失败提示
func (t *Tracker) TakeNotice() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.notice
	t.notice = ""
	return n
}

// Close 之后到达的写入结果不再生效，未完成的写入不会取消
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Wait 等待所有未完成的写入结束
func (t *Tracker) Wait() {
	t.writes.Wait()
}
