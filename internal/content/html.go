package content

import (
	"html/template"
	"strings"
)

// HTML 输出展示树，文本和属性值会转义，Markup 节点原样输出
func HTML(n Node) template.HTML {
	var b strings.Builder
	writeNode(&b, n)
	return template.HTML(b.String())
}

func writeNode(b *strings.Builder, n Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(template.HTMLEscapeString(n.Text))
	case KindMarkup:
		b.WriteString(n.Text)
	case KindEmpty:
		b.WriteString(`<p class="empty-state">`)
		b.WriteString(template.HTMLEscapeString(n.Text))
		b.WriteString(`</p>`)
	default:
		tag := n.Tag
		if tag == "" {
			tag = "div"
		}
		b.WriteByte('<')
		b.WriteString(tag)
		if n.Class != "" {
			writeAttr(b, "class", n.Class)
		}
		for _, a := range n.Attrs {
			writeAttr(b, a.Name, a.Value)
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
	}
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(template.HTMLEscapeString(value))
	b.WriteByte('"')
}
