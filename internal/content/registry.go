package content

// RenderFunc 把内容渲染为展示树，传入其他类型的内容时不能 panic
type RenderFunc func(p Payload, answers AnswerState) Node

// Renderer 解析得到的渲染器，使用回退渲染器时 Type 与请求的类型不同
type Renderer struct {
	Type   Type
	render RenderFunc
}

func (r Renderer) Render(p Payload, answers AnswerState) Node {
	if r.render == nil {
		return renderOverview(p, answers)
	}
	return r.render(p, answers)
}

// fallback 处理所有未知类型
var fallback = Renderer{Type: TypeOverview, render: renderOverview}

// Resolve 返回 t 对应的渲染器，未知或空类型使用 OVERVIEW 渲染器
func Resolve(t Type) Renderer {
	switch t {
	case TypeOverview:
		return Renderer{Type: t, render: renderOverview}
	case TypeKeyTerms:
		return Renderer{Type: t, render: renderKeyTerms}
	case TypeCases:
		return Renderer{Type: t, render: renderCases}
	case TypeStatutes:
		return Renderer{Type: t, render: renderStatutes}
	case TypePracticeQuestions:
		return Renderer{Type: t, render: renderPracticeQuestions}
	case TypeSummary:
		return Renderer{Type: t, render: renderSummary}
	case TypeCustom:
		return Renderer{Type: t, render: renderCustom}
	}
	return fallback
}

// Render 按内容的实际类型分发
func Render(p Payload, answers AnswerState) Node {
	switch p.(type) {
	case Overview:
		return renderOverview(p, answers)
	case KeyTerms:
		return renderKeyTerms(p, answers)
	case Cases:
		return renderCases(p, answers)
	case Statutes:
		return renderStatutes(p, answers)
	case PracticeQuestions:
		return renderPracticeQuestions(p, answers)
	case Summary:
		return renderSummary(p, answers)
	case Custom:
		return renderCustom(p, answers)
	}
	return Empty(EmptyOverview)
}
