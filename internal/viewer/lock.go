package viewer

import (
	"strings"
	"sync"
)

// RequestLock 保护未完成的进度写入，TryAcquire 不阻塞
type RequestLock interface {
	TryAcquire(key string) bool
	Release(key string)
}

type keyLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewRequestLock() RequestLock {
	return &keyLock{held: make(map[string]struct{})}
}

func (l *keyLock) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

func (l *keyLock) Release(key string) {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
}

// LockScope 决定哪些切换操作互斥
type LockScope int

const (
	// ScopeSubsection 每个小节同时只有一个写入
	ScopeSubsection LockScope = iota
	// ScopeLesson 整个课程同时只有一个写入
	ScopeLesson
)

func ParseLockScope(s string) LockScope {
	if strings.EqualFold(strings.TrimSpace(s), "lesson") {
		return ScopeLesson
	}
	return ScopeSubsection
}

func (s LockScope) String() string {
	if s == ScopeLesson {
		return "lesson"
	}
	return "subsection"
}

func (s LockScope) key(lessonID, subsectionID string) string {
	if s == ScopeLesson {
		return "lesson:" + lessonID
	}
	return "subsection:" + subsectionID
}
