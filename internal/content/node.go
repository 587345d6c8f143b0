package content

import "strings"

// Kind 展示树节点类型
type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindMarkup
	KindEmpty
)

type Attr struct {
	Name  string
	Value string
}

// Node 渲染器生成的展示树节点。Text 输出时转义，Markup 原样写出，
// Empty 节点携带对应渲染器的“暂无内容”提示
type Node struct {
	Kind     Kind
	Tag      string
	Class    string
	Attrs    []Attr
	Text     string
	Children []Node
}

func El(tag, class string, children ...Node) Node {
	return Node{Kind: KindElement, Tag: tag, Class: class, Children: children}
}

func Text(s string) Node {
	return Node{Kind: KindText, Text: s}
}

func Markup(s string) Node {
	return Node{Kind: KindMarkup, Text: s}
}

func Empty(message string) Node {
	return Node{Kind: KindEmpty, Text: message}
}

// WithAttr 返回追加了属性的副本
func (n Node) WithAttr(name, value string) Node {
	attrs := make([]Attr, len(n.Attrs), len(n.Attrs)+1)
	copy(attrs, n.Attrs)
	n.Attrs = append(attrs, Attr{Name: name, Value: value})
	return n
}

func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsEmptyState 是否为空状态占位节点
func (n Node) IsEmptyState() bool {
	return n.Kind == KindEmpty
}

// TextContent 拼接所有 Text、Markup 和 Empty 节点的文本
func (n Node) TextContent() string {
	var b strings.Builder
	n.walk(func(m Node) bool {
		if m.Kind != KindElement {
			b.WriteString(m.Text)
		}
		return true
	})
	return b.String()
}

// FindAll 按文档顺序返回带有指定 class 的节点
func (n Node) FindAll(class string) []Node {
	var out []Node
	n.walk(func(m Node) bool {
		if m.Kind == KindElement && hasClass(m.Class, class) {
			out = append(out, m)
		}
		return true
	})
	return out
}

func (n Node) walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func hasClass(classes, class string) bool {
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}
