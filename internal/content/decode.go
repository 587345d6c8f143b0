package content

import (
	"bytes"
	"encoding/json"
	"math"
)

type fields map[string]json.RawMessage

// Decode 把原始 JSON 解析为 t 对应的内容结构，未知类型按 Overview 处理（与渲染回退一致）。
// 解析不会失败：缺失或格式不对的字段保持零值，没有任何内容的列表项直接丢弃
func Decode(t Type, raw []byte) Payload {
	f := parseFields(raw)

	switch t {
	case TypeKeyTerms:
		var p KeyTerms
		for _, o := range f.objects("terms") {
			term := KeyTerm{Term: o.str("term"), Definition: o.str("definition")}
			if term != (KeyTerm{}) {
				p.Terms = append(p.Terms, term)
			}
		}
		return p
	case TypeCases:
		var p Cases
		for _, o := range f.objects("cases") {
			c := Case{
				Name:         o.str("name"),
				Citation:     o.str("citation"),
				Facts:        o.str("facts"),
				Decision:     o.str("decision"),
				Significance: o.str("significance"),
			}
			if c != (Case{}) {
				p.Cases = append(p.Cases, c)
			}
		}
		return p
	case TypeStatutes:
		var p Statutes
		for _, o := range f.objects("statutes") {
			s := Statute{
				Name:        o.str("name"),
				Section:     o.str("section"),
				Description: o.str("description"),
				KeyPoints:   o.strs("keyPoints"),
			}
			if s.Name != "" || s.Section != "" || s.Description != "" || len(s.KeyPoints) > 0 {
				p.Statutes = append(p.Statutes, s)
			}
		}
		return p
	case TypePracticeQuestions:
		var p PracticeQuestions
		for _, o := range f.objects("questions") {
			q := Question{
				Question:     o.str("question"),
				Options:      o.positional("options"),
				CorrectIndex: o.index("correctIndex"),
				Explanation:  o.str("explanation"),
			}
			if q.Question == "" && len(q.Options) == 0 {
				continue
			}
			p.Questions = append(p.Questions, q)
		}
		return p
	case TypeSummary:
		return Summary{Text: f.str("text"), KeyPoints: f.strs("keyPoints")}
	case TypeCustom:
		return Custom{HTML: f.str("html")}
	default:
		return Overview{Text: f.str("text")}
	}
}

func parseFields(raw []byte) fields {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}

func (f fields) str(key string) string {
	var s string
	if v, ok := f[key]; ok && json.Unmarshal(v, &s) == nil {
		return s
	}
	return ""
}

// strs 只保留数组中的字符串元素
func (f fields) strs(key string) []string {
	var items []json.RawMessage
	if v, ok := f[key]; !ok || json.Unmarshal(v, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// positional 保留全部元素，保证下标与 correctIndex 对齐，非字符串元素记为 ""
func (f fields) positional(key string) []string {
	var items []json.RawMessage
	if v, ok := f[key]; !ok || json.Unmarshal(v, &items) != nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		_ = json.Unmarshal(item, &out[i])
	}
	return out
}

func (f fields) objects(key string) []fields {
	var items []json.RawMessage
	if v, ok := f[key]; !ok || json.Unmarshal(v, &items) != nil {
		return nil
	}
	var out []fields
	for _, item := range items {
		if o := parseFields(item); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// index 读取非负整数，否则返回 -1
func (f fields) index(key string) int {
	var n float64
	v, ok := f[key]
	if !ok || json.Unmarshal(v, &n) != nil {
		return -1
	}
	if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return -1
	}
	return int(n)
}
