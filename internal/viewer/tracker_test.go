package viewer

import (
	"context"
	"errors"
	"testing"
)

func TestTrackerLoadSeedsCompleted(t *testing.T) {
	src := &fakeSource{progress: []ProgressRecord{
		{SubsectionID: "s1", Completed: true},
		{SubsectionID: "s2", Completed: false},
	}}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)
	tr.Load(context.Background(), src)

	if !tr.IsComplete("s1") || tr.IsComplete("s2") {
		t.Fatalf("unexpected completed set: %v", tr.Completed())
	}
	// only subsections of the lesson count
	if got := tr.Summary([]Subsection{{ID: "s1"}, {ID: "s3"}}); got != "1/2" {
		t.Fatalf("summary: got=%s want=1/2", got)
	}
}

func TestTrackerLoadFailureIsSilent(t *testing.T) {
	src := &fakeSource{progressErr: errBackend}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)
	tr.Seed([]ProgressRecord{{SubsectionID: "stale", Completed: true}})
	tr.Load(context.Background(), src)

	if len(tr.Completed()) != 0 {
		t.Fatalf("failed load should leave an empty set, got %v", tr.Completed())
	}
	if n := tr.TakeNotice(); n != "" {
		t.Fatalf("progress fetch failure must not surface, got %q", n)
	}
}

func TestToggleIsOptimisticAndGuarded(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{})}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)

	p, err := tr.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !tr.IsComplete("s1") {
		t.Fatal("toggle must update the set before the write resolves")
	}
	if !p.Completed {
		t.Fatal("pending should report the new state")
	}

	if _, err := tr.Toggle(context.Background(), "s1"); !errors.Is(err, ErrToggleInFlight) {
		t.Fatalf("second toggle: got=%v want=%v", err, ErrToggleInFlight)
	}
	if !tr.IsComplete("s1") {
		t.Fatal("rejected toggle must not change the set")
	}

	close(src.gate)
	if err := p.Wait(); err != nil {
		t.Fatalf("write: %v", err)
	}
	completes, undoes := src.writes()
	if len(completes) != 1 || completes[0] != "s1" || len(undoes) != 0 {
		t.Fatalf("expected exactly one complete write for s1, got completes=%v undoes=%v", completes, undoes)
	}

	// lock released once the write settles
	p, err = tr.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle after settle: %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("undo write: %v", err)
	}
	if tr.IsComplete("s1") {
		t.Fatal("second toggle should mark incomplete")
	}
	if _, undoes := src.writes(); len(undoes) != 1 {
		t.Fatalf("expected one incomplete write, got %v", undoes)
	}
}

func TestToggleScope(t *testing.T) {
	tests := []struct {
		scope   LockScope
		wantErr error
	}{
		{ScopeSubsection, nil},
		{ScopeLesson, ErrToggleInFlight},
	}
	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			src := &fakeSource{gate: make(chan struct{})}
			tr := NewTracker(1, "l1", src, nil, tt.scope)
			defer tr.Wait()
			defer close(src.gate)

			if _, err := tr.Toggle(context.Background(), "s1"); err != nil {
				t.Fatalf("first toggle: %v", err)
			}
			_, err := tr.Toggle(context.Background(), "s2")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("toggle of another subsection: got=%v want=%v", err, tt.wantErr)
			}
			if got := tr.IsComplete("s2"); got != (tt.wantErr == nil) {
				t.Fatalf("s2 complete: got=%v", got)
			}
		})
	}
}

// A failed write is undone and reported once, rather than leaving the local
// state out of step with the backend.
func TestToggleFailureRollsBack(t *testing.T) {
	src := &fakeSource{writeErr: errBackend}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)
	tr.Seed([]ProgressRecord{{SubsectionID: "s2", Completed: true}})

	p, err := tr.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := p.Wait(); !errors.Is(err, errBackend) {
		t.Fatalf("pending error: got=%v want=%v", err, errBackend)
	}
	if tr.IsComplete("s1") {
		t.Fatal("failed complete should be rolled back")
	}

	p, _ = tr.Toggle(context.Background(), "s2")
	p.Wait()
	if !tr.IsComplete("s2") {
		t.Fatal("failed incomplete should be rolled back")
	}

	if n := tr.TakeNotice(); n != NoticeSaveFailed {
		t.Fatalf("notice: got=%q want=%q", n, NoticeSaveFailed)
	}
	if n := tr.TakeNotice(); n != "" {
		t.Fatalf("notice should be shown once, got %q", n)
	}
}

func TestToggleAfterCloseIsNoop(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{}), writeErr: errBackend}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)

	p, err := tr.Toggle(context.Background(), "s1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tr.Close()
	close(src.gate)
	p.Wait()

	if !tr.IsComplete("s1") {
		t.Fatal("late failure after close must not touch the set")
	}
	if n := tr.TakeNotice(); n != "" {
		t.Fatalf("no notice after close, got %q", n)
	}
	if _, err := tr.Toggle(context.Background(), "s1"); !errors.Is(err, ErrViewClosed) {
		t.Fatalf("toggle on closed tracker: got=%v want=%v", err, ErrViewClosed)
	}
}

func TestToggleWriteOutlivesRequestContext(t *testing.T) {
	src := &fakeSource{}
	tr := NewTracker(1, "l1", src, nil, ScopeSubsection)

	ctx, cancel := context.WithCancel(context.Background())
	p, err := tr.Toggle(ctx, "s1")
	cancel()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("write should not be cancelled with the request: %v", err)
	}
	if !tr.IsComplete("s1") {
		t.Fatal("completed write should stick")
	}
}
