package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lexstudy_backend/internal/content"
)

func TestLoadContractLesson(t *testing.T) {
	c := NewController(contractLesson(), Options{})
	v := c.Open(context.Background(), 7, "l1")

	snap := v.Snapshot()
	if snap.Status != StatusReady {
		t.Fatalf("status: got=%s want=%s", snap.Status, StatusReady)
	}
	if snap.ActiveIndex != 0 || snap.Active == nil || snap.Active.ID != "s1" {
		t.Fatalf("first subsection should be active: %+v", snap.Active)
	}
	if snap.Progress.Label != "1/3" {
		t.Fatalf("progress: got=%s want=1/3", snap.Progress.Label)
	}
	if snap.HasPrevious || !snap.HasNext {
		t.Fatalf("nav flags at start: prev=%v next=%v", snap.HasPrevious, snap.HasNext)
	}
	var order []string
	for _, s := range snap.Subsections {
		order = append(order, fmt.Sprintf("%s:%v", s.ID, s.Completed))
	}
	if got := strings.Join(order, ","); got != "s1:false,s2:true,s3:false" {
		t.Fatalf("subsections: got=%s", got)
	}

	v.Next()
	snap, err := v.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if snap.ActiveIndex != 2 || snap.Active.ID != "s3" {
		t.Fatalf("after two next: index=%d", snap.ActiveIndex)
	}
	if snap.HasNext {
		t.Fatal("next should be disabled on the last subsection")
	}
	if snap.Active.Renderer != content.TypeSummary || !strings.Contains(string(snap.Active.HTML), "Offer, acceptance") {
		t.Fatalf("summary not rendered: %s", snap.Active.HTML)
	}
}

func TestLoadEmptyPracticeQuestions(t *testing.T) {
	src := &fakeSource{
		lesson: &Lesson{ID: "l1", Title: "Torts"},
		subsections: []SubsectionRecord{
			{ID: "p", LessonID: "l1", Type: content.TypePracticeQuestions, Order: 1, Content: raw(map[string]any{"questions": []any{}})},
		},
	}
	v := NewController(src, Options{}).Open(context.Background(), 1, "l1")

	snap := v.Snapshot()
	if snap.Active == nil || !snap.Active.Empty {
		t.Fatalf("expected an empty state, got %+v", snap.Active)
	}
	html := string(snap.Active.HTML)
	if !strings.Contains(html, content.EmptyQuestions) {
		t.Fatalf("empty message missing: %s", html)
	}
	if snap.Score != nil || strings.Contains(html, "score-banner") {
		t.Fatal("no score banner for an empty question list")
	}
}

func TestLoadNotFound(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		want string
	}{
		{"missing lesson", &fakeSource{lessonErr: fmt.Errorf("fetch: %w", ErrNotFound)}, MessageLessonNotFound},
		{"nil lesson", &fakeSource{}, MessageLessonNotFound},
		{"lesson fetch error", &fakeSource{lessonErr: errBackend}, MessageLoadFailed},
		{"subsection fetch error", &fakeSource{lesson: &Lesson{ID: "l1"}, subErr: errBackend}, MessageLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewController(tt.src, Options{}).Open(context.Background(), 1, "l1")
			snap := v.Snapshot()
			if snap.Status != StatusNotFound {
				t.Fatalf("status: got=%s want=%s", snap.Status, StatusNotFound)
			}
			if snap.Message != tt.want || !snap.CanRetry {
				t.Fatalf("message=%q canRetry=%v", snap.Message, snap.CanRetry)
			}
			if snap.Lesson != nil || snap.Active != nil || len(snap.Subsections) != 0 {
				t.Fatal("not found view must not render partial data")
			}
			if _, err := v.Next(); !errors.Is(err, ErrNotReady) {
				t.Fatalf("navigation on not-found view: got=%v want=%v", err, ErrNotReady)
			}
		})
	}
}

func TestLoadProgressFailureIsOptional(t *testing.T) {
	src := contractLesson()
	src.progressErr = errBackend
	v := NewController(src, Options{}).Open(context.Background(), 1, "l1")

	snap := v.Snapshot()
	if snap.Status != StatusReady {
		t.Fatalf("status: got=%s want=%s", snap.Status, StatusReady)
	}
	if snap.Progress.Label != "0/3" || snap.Notice != "" {
		t.Fatalf("progress=%s notice=%q", snap.Progress.Label, snap.Notice)
	}
}

func TestRetryAfterNotFound(t *testing.T) {
	src := contractLesson()
	src.lessonErr = errBackend
	c := NewController(src, Options{})
	v := c.Open(context.Background(), 1, "l1")
	if v.Status() != StatusNotFound {
		t.Fatalf("status: got=%s", v.Status())
	}

	src.mu.Lock()
	src.lessonErr = nil
	src.mu.Unlock()
	if err := c.Retry(context.Background(), v); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if v.Status() != StatusReady {
		t.Fatalf("status after retry: got=%s", v.Status())
	}
	if err := c.Retry(context.Background(), v); !errors.Is(err, ErrNothingToRetry) {
		t.Fatalf("retry on ready view: got=%v want=%v", err, ErrNothingToRetry)
	}
}

func TestMountStartsLoading(t *testing.T) {
	c := NewController(contractLesson(), Options{})
	v := c.Mount(1, "l1")
	snap := v.Snapshot()
	if snap.Status != StatusLoading || snap.Active != nil || snap.CanRetry {
		t.Fatalf("unexpected loading snapshot: %+v", snap)
	}
}

func TestLoadAfterCloseIsNoop(t *testing.T) {
	c := NewController(contractLesson(), Options{})
	v := c.Mount(1, "l1")
	v.Close()
	c.Load(context.Background(), v)
	if v.Status() != StatusLoading {
		t.Fatalf("closed view should not be populated, got %s", v.Status())
	}
}

func TestViewToggle(t *testing.T) {
	src := contractLesson()
	src.gate = make(chan struct{})
	v := NewController(src, Options{}).Open(context.Background(), 1, "l1")

	snap, pending, err := v.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !snap.Active.Completed || snap.Progress.Label != "2/3" {
		t.Fatalf("optimistic state missing: completed=%v progress=%s", snap.Active.Completed, snap.Progress.Label)
	}
	if _, _, err := v.Toggle(context.Background(), "s1"); !errors.Is(err, ErrToggleInFlight) {
		t.Fatalf("second toggle: got=%v want=%v", err, ErrToggleInFlight)
	}
	close(src.gate)
	pending.Wait()

	if _, _, err := v.Toggle(context.Background(), "nope"); !errors.Is(err, ErrUnknownSubsection) {
		t.Fatalf("unknown subsection: got=%v want=%v", err, ErrUnknownSubsection)
	}
}

func TestViewToggleFailureNotice(t *testing.T) {
	src := contractLesson()
	src.writeErr = errBackend
	v := NewController(src, Options{}).Open(context.Background(), 1, "l1")

	_, pending, err := v.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	pending.Wait()

	snap := v.Snapshot()
	if snap.Progress.Label != "1/3" || snap.Subsections[0].Completed {
		t.Fatalf("failed toggle should roll back, progress=%s", snap.Progress.Label)
	}
	if snap.Notice != NoticeSaveFailed {
		t.Fatalf("notice: got=%q", snap.Notice)
	}
	if again := v.Snapshot(); again.Notice != "" {
		t.Fatalf("notice repeated: %q", again.Notice)
	}
}

func TestViewAnswer(t *testing.T) {
	v := NewController(contractLesson(), Options{}).Open(context.Background(), 1, "l1")

	if _, _, err := v.Answer(0, 0); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("answer on overview: got=%v want=%v", err, ErrInvalidAnswer)
	}
	v.Next()
	for _, bad := range [][2]int{{-1, 0}, {2, 0}, {0, 3}, {0, -1}} {
		if _, _, err := v.Answer(bad[0], bad[1]); !errors.Is(err, ErrInvalidAnswer) {
			t.Fatalf("answer %v: got=%v want=%v", bad, err, ErrInvalidAnswer)
		}
	}

	snap, accepted, err := v.Answer(0, 1)
	if err != nil || !accepted {
		t.Fatalf("answer: accepted=%v err=%v", accepted, err)
	}
	if snap.Score == nil || *snap.Score != (content.Score{Correct: 0, Answered: 1, Total: 2}) {
		t.Fatalf("score: %+v", snap.Score)
	}
	if !strings.Contains(string(snap.Active.HTML), "Score: 0 / 1 answered") {
		t.Fatalf("banner missing: %s", snap.Active.HTML)
	}
	if _, accepted, _ := v.Answer(0, 2); accepted {
		t.Fatal("answered question is locked")
	}
}

func TestPracticeAnswersResetOnActivation(t *testing.T) {
	tests := []struct {
		retain bool
		want   bool
	}{
		{retain: false, want: false},
		{retain: true, want: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("retain=%v", tt.retain), func(t *testing.T) {
			v := NewController(contractLesson(), Options{RetainAnswers: tt.retain}).Open(context.Background(), 1, "l1")
			v.Select(1)
			v.Answer(1, 1)
			v.Next()
			snap, _ := v.Previous()
			if got := snap.Score != nil; got != tt.want {
				t.Fatalf("answers kept: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestSetOptionsAppliesToNewViews(t *testing.T) {
	c := NewController(contractLesson(), Options{})
	c.SetOptions(Options{LockScope: ScopeLesson, RetainAnswers: true})
	if got := c.Options(); got.LockScope != ScopeLesson || !got.RetainAnswers {
		t.Fatalf("options not applied: %+v", got)
	}

	src := contractLesson()
	src.gate = make(chan struct{})
	c = NewController(src, Options{LockScope: ScopeLesson})
	v := c.Open(context.Background(), 1, "l1")
	_, pending, err := v.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, _, err := v.Toggle(context.Background(), "s3"); !errors.Is(err, ErrToggleInFlight) {
		t.Fatalf("lesson scope should block other subsections: got=%v", err)
	}
	close(src.gate)
	pending.Wait()
}
