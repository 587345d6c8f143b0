package content

import "strings"

// RichText 决定文本字段的展示方式：去掉首尾空白后以 "<" 开头的视为编辑器 HTML 原样嵌入，
// 否则按纯文本处理。空白输入不返回节点，是否显示空状态由调用方决定。
//
// 嵌入的 HTML 由内容写入方负责清洗
func RichText(s string) (Node, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Node{}, false
	}
	if strings.HasPrefix(trimmed, "<") {
		return Markup(s), true
	}
	return Text(s), true
}

// richBlock 用元素包裹富文本，没有内容时返回 false
func richBlock(tag, class, s string) (Node, bool) {
	n, ok := RichText(s)
	if !ok {
		return Node{}, false
	}
	return El(tag, class, n), true
}
