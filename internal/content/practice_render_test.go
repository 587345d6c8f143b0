package content

import (
	"strings"
	"testing"
)

// answers is a fixed AnswerState for exercising the renderer alone.
type answers struct {
	selected map[int]int
}

func (a answers) Selected(q int) (int, bool) {
	s, ok := a.selected[q]
	return s, ok
}

func (a answers) Revealed(q int) bool {
	_, ok := a.selected[q]
	return ok
}

func (a answers) Score(questions []Question) Score {
	s := Score{Total: len(questions)}
	for i, q := range questions {
		if sel, ok := a.selected[i]; ok {
			s.Answered++
			if sel == q.CorrectIndex {
				s.Correct++
			}
		}
	}
	return s
}

func twoQuestions() PracticeQuestions {
	return PracticeQuestions{Questions: []Question{
		{Question: "Is silence acceptance?", Options: []string{"Yes", "No"}, CorrectIndex: 1, Explanation: "Felthouse v Bindley"},
		{Question: "Which is an invitation to treat?", Options: []string{"Offer", "Display of goods", "Contract"}, CorrectIndex: 1},
	}}
}

func TestPracticeNoBannerBeforeAnswers(t *testing.T) {
	n := Resolve(TypePracticeQuestions).Render(twoQuestions(), answers{})
	if len(n.FindAll("score-banner")) != 0 {
		t.Fatal("banner must be hidden until a question is revealed")
	}
	if len(n.FindAll("feedback")) != 0 {
		t.Fatal("no feedback before reveal")
	}
	if got := len(n.FindAll("question")); got != 2 {
		t.Fatalf("questions: got=%d want=2", got)
	}
}

func TestPracticeBannerAndFeedback(t *testing.T) {
	n := Resolve(TypePracticeQuestions).Render(twoQuestions(), answers{selected: map[int]int{0: 0}})
	banner := n.FindAll("score-banner")
	if len(banner) != 1 || banner[0].TextContent() != "Score: 0 / 1 answered" {
		t.Fatalf("unexpected banner: %+v", banner)
	}
	if got := n.FindAll("incorrect"); len(got) != 1 || got[0].TextContent() != "Yes" {
		t.Fatalf("selected wrong option should be marked incorrect: %s", HTML(n))
	}
	if got := n.FindAll("correct"); len(got) != 1 || got[0].TextContent() != "No" {
		t.Fatalf("correct option should be marked: %s", HTML(n))
	}
	if got := n.FindAll("explanation"); len(got) != 1 {
		t.Fatalf("explanation should show after reveal: %s", HTML(n))
	}
}

func TestPracticeZeroOptions(t *testing.T) {
	p := PracticeQuestions{Questions: []Question{{Question: "Explain consideration.", CorrectIndex: -1}}}
	n := Resolve(TypePracticeQuestions).Render(p, nil)
	opts := n.FindAll("options")
	if len(opts) != 1 || len(opts[0].Children) != 0 {
		t.Fatalf("expected empty option list, got %s", HTML(n))
	}
	if !strings.Contains(n.TextContent(), "Explain consideration.") {
		t.Fatal("prompt should still render")
	}
}

func TestPracticeEmptyQuestionsHasNoBanner(t *testing.T) {
	p := Decode(TypePracticeQuestions, []byte(`{"questions":[]}`))
	n := Resolve(TypePracticeQuestions).Render(p, answers{selected: map[int]int{0: 1}})
	if !n.IsEmptyState() || n.Text != EmptyQuestions {
		t.Fatalf("got %q", n.Text)
	}
	if len(n.FindAll("score-banner")) != 0 {
		t.Fatal("no banner for empty questions")
	}
}
