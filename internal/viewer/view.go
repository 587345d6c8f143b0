package viewer

import (
	"context"
	"html/template"
	"sync"
	"time"

	"lexstudy_backend/internal/content"
	"lexstudy_backend/pkg/monitoring"
)

type Status string

const (
	StatusLoading  Status = "loading"
	StatusNotFound Status = "not_found"
	StatusReady    Status = "ready"
)

const (
	MessageLessonNotFound = "Lesson not found"
	MessageLoadFailed     = "Failed to load lesson details"
)

// View 一个已挂载的课程详情视图，所有方法并发安全
type View struct {
	ID       string
	UserID   uint
	LessonID string

	mu            sync.Mutex
	status        Status
	message       string
	lesson        *Lesson
	nav           *Navigator
	tracker       *Tracker
	practice      map[string]*PracticeSession
	retainAnswers bool
	lastSeen      time.Time
	closed        bool
	loadSeq       int
}

func newView(id string, userID uint, lessonID string, retainAnswers bool) *View {
	return &View{
		ID:            id,
		UserID:        userID,
		LessonID:      lessonID,
		status:        StatusLoading,
		nav:           NewNavigator(nil),
		practice:      make(map[string]*PracticeSession),
		retainAnswers: retainAnswers,
		lastSeen:      time.Now(),
	}
}

type SubsectionSummary struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      content.Type `json:"type"`
	Order     int          `json:"order"`
	Completed bool         `json:"completed"`
}

type ActiveSubsection struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Type      content.Type  `json:"type"`
	Renderer  content.Type  `json:"renderer"`
	HTML      template.HTML `json:"html"`
	Empty     bool          `json:"empty"`
	Completed bool          `json:"completed"`
}

type ProgressSummary struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Label     string `json:"label"`
}

// Snapshot 视图某一时刻的渲染结果
type Snapshot struct {
	ViewID      string              `json:"viewId"`
	Status      Status              `json:"status"`
	Message     string              `json:"message,omitempty"`
	CanRetry    bool                `json:"canRetry"`
	Lesson      *Lesson             `json:"lesson,omitempty"`
	Subsections []SubsectionSummary `json:"subsections"`
	ActiveIndex int                 `json:"activeIndex"`
	Active      *ActiveSubsection   `json:"active,omitempty"`
	HasPrevious bool                `json:"hasPrevious"`
	HasNext     bool                `json:"hasNext"`
	Progress    ProgressSummary     `json:"progress"`
	Score       *content.Score      `json:"score,omitempty"`
	Notice      string              `json:"notice,omitempty"`
	ScrollToken int                 `json:"scrollToken"`
}

func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Snapshot 渲染当前状态，保存失败提示只返回一次
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	snap := Snapshot{
		ViewID:      v.ID,
		Status:      v.status,
		Message:     v.message,
		ActiveIndex: -1,
		Subsections: []SubsectionSummary{},
	}
	switch v.status {
	case StatusLoading:
		return snap
	case StatusNotFound:
		snap.CanRetry = true
		return snap
	}

	snap.Lesson = v.lesson
	items := v.nav.Items()
	for _, s := range items {
		snap.Subsections = append(snap.Subsections, SubsectionSummary{
			ID:        s.ID,
			Title:     s.Title,
			Type:      s.Type,
			Order:     s.Order,
			Completed: v.tracker.IsComplete(s.ID),
		})
	}
	snap.ActiveIndex = v.nav.Index()
	snap.HasPrevious = v.nav.HasPrevious()
	snap.HasNext = v.nav.HasNext()
	snap.ScrollToken = v.nav.ScrollToken()
	snap.Progress = ProgressSummary{
		Completed: v.tracker.CountIn(items),
		Total:     len(items),
		Label:     v.tracker.Summary(items),
	}
	snap.Notice = v.tracker.TakeNotice()

	active, ok := v.nav.Active()
	if !ok {
		return snap
	}
	var answers content.AnswerState
	if qs, ok := active.Payload.(content.PracticeQuestions); ok {
		session := v.session(active.ID)
		answers = session
		if score := session.Score(qs.Questions); score.Visible() {
			snap.Score = &score
		}
	}
	renderer := content.Resolve(active.Type)
	node := renderer.Render(active.Payload, answers)
	state := "content"
	if node.IsEmptyState() {
		state = "empty"
	}
	monitoring.SubsectionRenders.WithLabelValues(string(renderer.Type), state).Inc()

	snap.Active = &ActiveSubsection{
		ID:        active.ID,
		Title:     active.Title,
		Type:      active.Type,
		Renderer:  renderer.Type,
		HTML:      content.HTML(node),
		Empty:     node.IsEmptyState(),
		Completed: v.tracker.IsComplete(active.ID),
	}
	return snap
}

func (v *View) session(subsectionID string) *PracticeSession {
	s, ok := v.practice[subsectionID]
	if !ok {
		s = NewPracticeSession()
		v.practice[subsectionID] = s
	}
	return s
}

// Select 切换到指定下标的小节，越界时视图不变
func (v *View) Select(index int) (Snapshot, error) {
	return v.navigate(func(n *Navigator) { n.Select(index) })
}

func (v *View) Next() (Snapshot, error) {
	return v.navigate(func(n *Navigator) { n.Next() })
}

func (v *View) Previous() (Snapshot, error) {
	return v.navigate(func(n *Navigator) { n.Previous() })
}

func (v *View) navigate(move func(*Navigator)) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return Snapshot{}, err
	}
	move(v.nav)
	return v.snapshotLocked(), nil
}

// Toggle 切换本课程某小节的完成状态，返回的快照已体现新状态，写入在后台完成
func (v *View) Toggle(ctx context.Context, subsectionID string) (Snapshot, *Pending, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return Snapshot{}, nil, err
	}
	if !v.hasSubsection(subsectionID) {
		return Snapshot{}, nil, ErrUnknownSubsection
	}
	pending, err := v.tracker.Toggle(ctx, subsectionID)
	if err != nil {
		return Snapshot{}, nil, err
	}
	return v.snapshotLocked(), pending, nil
}

// Answer 在当前练习题小节作答，题目已作答时 accepted 为 false
func (v *View) Answer(question, option int) (Snapshot, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return Snapshot{}, false, err
	}
	active, ok := v.nav.Active()
	if !ok {
		return Snapshot{}, false, ErrInvalidAnswer
	}
	qs, ok := active.Payload.(content.PracticeQuestions)
	if !ok || question < 0 || question >= len(qs.Questions) {
		return Snapshot{}, false, ErrInvalidAnswer
	}
	if option < 0 || option >= len(qs.Questions[question].Options) {
		return Snapshot{}, false, ErrInvalidAnswer
	}
	accepted := v.session(active.ID).Select(question, option)
	return v.snapshotLocked(), accepted, nil
}

// Close 卸载视图，之后完成的加载和写入不再生效
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.tracker != nil {
		v.tracker.Close()
	}
}

// Wait 等待该视图已发出的进度写入完成
func (v *View) Wait() {
	v.mu.Lock()
	t := v.tracker
	v.mu.Unlock()
	if t != nil {
		t.Wait()
	}
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) Touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

func (v *View) readyLocked() error {
	if v.closed {
		return ErrViewClosed
	}
	if v.status != StatusReady {
		return ErrNotReady
	}
	return nil
}

func (v *View) hasSubsection(id string) bool {
	for _, s := range v.nav.Items() {
		if s.ID == id {
			return true
		}
	}
	return false
}

// beginLoad 把视图置为加载中，返回本次加载的序号，完成时需校验
func (v *View) beginLoad() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, false
	}
	v.loadSeq++
	v.status = StatusLoading
	v.message = ""
	return v.loadSeq, true
}

func (v *View) finishNotFound(seq int, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || seq != v.loadSeq {
		return
	}
	v.status = StatusNotFound
	v.message = message
}

func (v *View) finishReady(seq int, lesson *Lesson, items []Subsection, tracker *Tracker) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || seq != v.loadSeq {
		return false
	}
	if v.tracker != nil {
		v.tracker.Close()
	}
	nav := NewNavigator(items)
	nav.OnSelect(func(prev, next int) {
		if v.retainAnswers || prev == next {
			return
		}
		delete(v.practice, nav.Items()[next].ID)
	})

	v.status = StatusReady
	v.lesson = lesson
	v.nav = nav
	v.tracker = tracker
	clear(v.practice)
	return true
}
