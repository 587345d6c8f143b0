package content

import (
	"fmt"
	"strconv"
)

// 各渲染器的空状态提示
const (
	EmptyOverview  = "No overview yet"
	EmptyKeyTerms  = "No key terms yet"
	EmptyCases     = "No cases yet"
	EmptyStatutes  = "No statutes yet"
	EmptyQuestions = "No questions yet"
	EmptySummary   = "No summary yet"
	EmptyCustom    = "No custom content yet"
)

// AnswerState 练习题渲染器读取的作答状态，其他渲染器忽略
type AnswerState interface {
	Selected(question int) (int, bool)
	Revealed(question int) bool
	Score(questions []Question) Score
}

type Score struct {
	Correct  int `json:"correct"`
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Visible 是否显示得分栏
func (s Score) Visible() bool {
	return s.Answered > 0
}

func renderOverview(p Payload, _ AnswerState) Node {
	v, ok := p.(Overview)
	if !ok {
		return Empty(EmptyOverview)
	}
	body, ok := richBlock("div", "overview-text", v.Text)
	if !ok {
		return Empty(EmptyOverview)
	}
	return El("div", "subsection overview", body)
}

func renderKeyTerms(p Payload, _ AnswerState) Node {
	v, ok := p.(KeyTerms)
	if !ok || len(v.Terms) == 0 {
		return Empty(EmptyKeyTerms)
	}
	list := El("dl", "key-terms")
	for _, t := range v.Terms {
		list.Children = append(list.Children, El("dt", "term", Text(t.Term)))
		if def, ok := richBlock("dd", "definition", t.Definition); ok {
			list.Children = append(list.Children, def)
		}
	}
	return El("div", "subsection key-terms", list)
}

func renderCases(p Payload, _ AnswerState) Node {
	v, ok := p.(Cases)
	if !ok || len(v.Cases) == 0 {
		return Empty(EmptyCases)
	}
	root := El("div", "subsection cases")
	for _, c := range v.Cases {
		card := El("article", "case", El("h3", "case-name", Text(c.Name)))
		if c.Citation != "" {
			card.Children = append(card.Children, El("p", "citation", Text(c.Citation)))
		}
		card.Children = appendLabelled(card.Children, "Facts", "facts", c.Facts)
		card.Children = appendLabelled(card.Children, "Decision", "decision", c.Decision)
		card.Children = appendLabelled(card.Children, "Significance", "significance", c.Significance)
		root.Children = append(root.Children, card)
	}
	return root
}

func renderStatutes(p Payload, _ AnswerState) Node {
	v, ok := p.(Statutes)
	if !ok || len(v.Statutes) == 0 {
		return Empty(EmptyStatutes)
	}
	root := El("div", "subsection statutes")
	for _, s := range v.Statutes {
		card := El("article", "statute", El("h3", "statute-name", Text(s.Name)))
		if s.Section != "" {
			card.Children = append(card.Children, El("p", "section", Text(s.Section)))
		}
		if desc, ok := richBlock("div", "description", s.Description); ok {
			card.Children = append(card.Children, desc)
		}
		if points := bulletList("key-points", s.KeyPoints); len(points.Children) > 0 {
			card.Children = append(card.Children, points)
		}
		root.Children = append(root.Children, card)
	}
	return root
}

func renderPracticeQuestions(p Payload, answers AnswerState) Node {
	v, ok := p.(PracticeQuestions)
	if !ok || len(v.Questions) == 0 {
		return Empty(EmptyQuestions)
	}
	root := El("div", "subsection practice-questions")
	if answers != nil {
		if score := answers.Score(v.Questions); score.Visible() {
			root.Children = append(root.Children, El("div", "score-banner",
				Text(fmt.Sprintf("Score: %d / %d answered", score.Correct, score.Answered))))
		}
	}
	for i, q := range v.Questions {
		root.Children = append(root.Children, renderQuestion(i, q, answers))
	}
	return root
}

func renderQuestion(index int, q Question, answers AnswerState) Node {
	var (
		selected = -1
		revealed bool
	)
	if answers != nil {
		if s, ok := answers.Selected(index); ok {
			selected = s
		}
		revealed = answers.Revealed(index)
	}

	block := El("section", "question").WithAttr("data-question", strconv.Itoa(index))
	if prompt, ok := richBlock("div", "prompt", q.Question); ok {
		block.Children = append(block.Children, prompt)
	}

	options := El("ol", "options")
	for j, opt := range q.Options {
		class := "option"
		if j == selected {
			class += " selected"
		}
		if revealed {
			switch {
			case j == q.CorrectIndex:
				class += " correct"
			case j == selected:
				class += " incorrect"
			}
		}
		item := El("li", class, Text(opt)).
			WithAttr("data-question", strconv.Itoa(index)).
			WithAttr("data-option", strconv.Itoa(j))
		if revealed {
			item = item.WithAttr("aria-disabled", "true")
		}
		options.Children = append(options.Children, item)
	}
	block.Children = append(block.Children, options)

	if revealed {
		verdict := "Incorrect"
		if selected == q.CorrectIndex {
			verdict = "Correct!"
		}
		block.Children = append(block.Children, El("p", "feedback", Text(verdict)))
		if exp, ok := richBlock("div", "explanation", q.Explanation); ok {
			block.Children = append(block.Children, exp)
		}
	}
	return block
}

func renderSummary(p Payload, _ AnswerState) Node {
	v, ok := p.(Summary)
	if !ok {
		return Empty(EmptySummary)
	}
	root := El("div", "subsection summary")
	if text, ok := richBlock("div", "summary-text", v.Text); ok {
		root.Children = append(root.Children, text)
	}
	if points := bulletList("key-points", v.KeyPoints); len(points.Children) > 0 {
		root.Children = append(root.Children, points)
	}
	if len(root.Children) == 0 {
		return Empty(EmptySummary)
	}
	return root
}

func renderCustom(p Payload, _ AnswerState) Node {
	v, ok := p.(Custom)
	if !ok {
		return Empty(EmptyCustom)
	}
	body, ok := RichText(v.HTML)
	if !ok {
		return Empty(EmptyCustom)
	}
	return El("div", "subsection custom", body)
}

func appendLabelled(children []Node, label, class, value string) []Node {
	body, ok := RichText(value)
	if !ok {
		return children
	}
	return append(children, El("div", class, El("h4", "", Text(label)), body))
}

func bulletList(class string, items []string) Node {
	list := El("ul", class)
	for _, item := range items {
		if n, ok := RichText(item); ok {
			list.Children = append(list.Children, El("li", "", n))
		}
	}
	return list
}
