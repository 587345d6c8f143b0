// Package content 课程小节的内容类型定义，以及把内容转换为展示树的渲染器
package content

// Type 小节类型
type Type string

const (
	TypeOverview          Type = "OVERVIEW"
	TypeKeyTerms          Type = "KEY_TERMS"
	TypeCases             Type = "CASES"
	TypeStatutes          Type = "STATUTES"
	TypePracticeQuestions Type = "PRACTICE_QUESTIONS"
	TypeSummary           Type = "SUMMARY"
	TypeCustom            Type = "CUSTOM"
)

// Types 全部已知小节类型，按展示顺序
var Types = []Type{
	TypeOverview,
	TypeKeyTerms,
	TypeCases,
	TypeStatutes,
	TypePracticeQuestions,
	TypeSummary,
	TypeCustom,
}

// Known 是否为已知类型
func (t Type) Known() bool {
	switch t {
	case TypeOverview, TypeKeyTerms, TypeCases, TypeStatutes,
		TypePracticeQuestions, TypeSummary, TypeCustom:
		return true
	}
	return false
}

// Payload 只由本文件中的内容结构实现
type Payload interface {
	Type() Type
	isPayload()
}

type Overview struct {
	Text string `json:"text,omitempty"`
}

type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type KeyTerms struct {
	Terms []KeyTerm `json:"terms"`
}

type Case struct {
	Name         string `json:"name"`
	Citation     string `json:"citation,omitempty"`
	Facts        string `json:"facts,omitempty"`
	Decision     string `json:"decision,omitempty"`
	Significance string `json:"significance,omitempty"`
}

type Cases struct {
	Cases []Case `json:"cases"`
}

type Statute struct {
	Name        string   `json:"name"`
	Section     string   `json:"section,omitempty"`
	Description string   `json:"description,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"`
}

type Statutes struct {
	Statutes []Statute `json:"statutes"`
}

// Question 单选练习题，内容中没有可用的正确答案下标时 CorrectIndex 为 -1
type Question struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

type PracticeQuestions struct {
	Questions []Question `json:"questions"`
}

type Summary struct {
	Text      string   `json:"text,omitempty"`
	KeyPoints []string `json:"keyPoints,omitempty"`
}

type Custom struct {
	HTML string `json:"html,omitempty"`
}

func (Overview) Type() Type          { return TypeOverview }
func (KeyTerms) Type() Type          { return TypeKeyTerms }
func (Cases) Type() Type             { return TypeCases }
func (Statutes) Type() Type          { return TypeStatutes }
func (PracticeQuestions) Type() Type { return TypePracticeQuestions }
func (Summary) Type() Type           { return TypeSummary }
func (Custom) Type() Type            { return TypeCustom }

func (Overview) isPayload()          {}
func (KeyTerms) isPayload()          {}
func (Cases) isPayload()             {}
func (Statutes) isPayload()          {}
func (PracticeQuestions) isPayload() {}
func (Summary) isPayload()           {}
func (Custom) isPayload()            {}
