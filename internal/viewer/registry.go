package viewer

import (
	"context"
	"sync"
	"time"

	"lexstudy_backend/pkg/logger"
	"lexstudy_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Registry 以视图 ID 在内存中保存已挂载的视图，空闲超过 ttl 的视图会被清理
type Registry struct {
	mu    sync.Mutex
	views map[string]*View
	ttl   time.Duration

	stop chan struct{}
	once sync.Once
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		views: make(map[string]*View),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
}

func (r *Registry) Add(v *View) {
	r.mu.Lock()
	r.views[v.ID] = v
	n := len(r.views)
	r.mu.Unlock()
	monitoring.ViewsMounted.Set(float64(n))
}

// Get 返回属于 userID 的视图并刷新活跃时间，其他用户的视图按不存在处理
func (r *Registry) Get(id string, userID uint) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok || v.UserID != userID {
		return nil, ErrViewNotFound
	}
	v.Touch(time.Now())
	return v, nil
}

// Remove 关闭并移除视图
func (r *Registry) Remove(id string, userID uint) error {
	r.mu.Lock()
	v, ok := r.views[id]
	if !ok || v.UserID != userID {
		r.mu.Unlock()
		return ErrViewNotFound
	}
	delete(r.views, id)
	n := len(r.views)
	r.mu.Unlock()

	v.Close()
	monitoring.ViewsMounted.Set(float64(n))
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep 关闭并移除空闲超过 ttl 的视图
func (r *Registry) Sweep(now time.Time) int {
	var expired []*View
	r.mu.Lock()
	for id, v := range r.views {
		if v.idleSince(now) > r.ttl {
			expired = append(expired, v)
			delete(r.views, id)
		}
	}
	n := len(r.views)
	r.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	if len(expired) > 0 {
		logger.Log.Debug("expired lesson views", zap.Int("count", len(expired)))
	}
	monitoring.ViewsMounted.Set(float64(n))
	return len(expired)
}

// Run 定期清理，直到调用 Stop
func (r *Registry) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Stop 结束 Run 并关闭所有视图，然后等待未完成的进度写入，最长等到 ctx 结束
func (r *Registry) Stop(ctx context.Context) error {
	var views map[string]*View
	r.once.Do(func() {
		close(r.stop)
		r.mu.Lock()
		views = r.views
		r.views = make(map[string]*View)
		r.mu.Unlock()
		for _, v := range views {
			v.Close()
		}
		monitoring.ViewsMounted.Set(0)
	})
	if len(views) == 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, v := range views {
			v.Wait()
		}
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
