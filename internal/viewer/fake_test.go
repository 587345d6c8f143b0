package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"lexstudy_backend/internal/content"
)

var errBackend = errors.New("backend unavailable")

// fakeSource is an in-memory Source. Writes block on gate when it is set so
// tests can observe state while a write is outstanding.
type fakeSource struct {
	mu sync.Mutex

	lesson      *Lesson
	lessonErr   error
	subsections []SubsectionRecord
	subErr      error
	progress    []ProgressRecord
	progressErr error
	writeErr    error

	gate      chan struct{}
	completes []string
	undoes    []string
}

func (f *fakeSource) Lesson(ctx context.Context, lessonID string) (*Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lessonErr != nil {
		return nil, f.lessonErr
	}
	return f.lesson, nil
}

func (f *fakeSource) Subsections(ctx context.Context, lessonID string) ([]SubsectionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subsections, f.subErr
}

func (f *fakeSource) Progress(ctx context.Context, userID uint, lessonID string) ([]ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress, f.progressErr
}

func (f *fakeSource) MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error {
	f.mu.Lock()
	f.completes = append(f.completes, subsectionID)
	gate, err := f.gate, f.writeErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeSource) MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error {
	f.mu.Lock()
	f.undoes = append(f.undoes, subsectionID)
	gate, err := f.gate, f.writeErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeSource) writes() (completes, undoes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.completes...), append([]string(nil), f.undoes...)
}

func raw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// contractLesson is a lesson of three subsections: an overview, two practice
// questions and a summary. The records arrive out of order.
func contractLesson() *fakeSource {
	return &fakeSource{
		lesson: &Lesson{ID: "l1", Title: "Formation of Contracts"},
		subsections: []SubsectionRecord{
			{ID: "s3", LessonID: "l1", Title: "Summary", Type: content.TypeSummary, Order: 3,
				Content: raw(map[string]any{"text": "Offer, acceptance, consideration.", "keyPoints": []string{"Offer", "Acceptance"}})},
			{ID: "s1", LessonID: "l1", Title: "Overview", Type: content.TypeOverview, Order: 1,
				Content: raw(map[string]any{"text": "A contract needs agreement."})},
			{ID: "s2", LessonID: "l1", Title: "Practice", Type: content.TypePracticeQuestions, Order: 2,
				Content: raw(map[string]any{"questions": []map[string]any{
					{"question": "Is silence acceptance?", "options": []string{"Yes", "No", "Sometimes"}, "correctIndex": 2},
					{"question": "Is a display of goods an offer?", "options": []string{"Yes", "No"}, "correctIndex": 1},
				}})},
		},
		progress: []ProgressRecord{{SubsectionID: "s2", Completed: true}},
	}
}
