package content

import (
	"reflect"
	"testing"
)

func TestDecodeUnknownTypeAsOverview(t *testing.T) {
	p := Decode("VIDEO", []byte(`{"text":"hello"}`))
	ov, ok := p.(Overview)
	if !ok || ov.Text != "hello" {
		t.Fatalf("got %#v", p)
	}
}

func TestDecodeBadFieldKeepsOthers(t *testing.T) {
	p := Decode(TypeSummary, []byte(`{"text":42,"keyPoints":["a","b"]}`))
	want := Summary{KeyPoints: []string{"a", "b"}}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("got %#v want %#v", p, want)
	}
}

func TestDecodeDropsEmptyEntries(t *testing.T) {
	p := Decode(TypeKeyTerms, []byte(`{"terms":[{},{"term":"Estoppel"},"junk",null]}`))
	kt := p.(KeyTerms)
	if len(kt.Terms) != 1 || kt.Terms[0].Term != "Estoppel" {
		t.Fatalf("got %#v", kt)
	}
}

func TestDecodeQuestions(t *testing.T) {
	raw := `{"questions":[
		{"question":"Q1","options":["a",7,"c"],"correctIndex":2,"explanation":"because"},
		{"question":"Q2","options":[],"correctIndex":1.5},
		{"question":"Q3","options":["x"]},
		{"options":"nope"}
	]}`
	p := Decode(TypePracticeQuestions, []byte(raw)).(PracticeQuestions)
	if len(p.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(p.Questions))
	}
	if got := p.Questions[0].Options; !reflect.DeepEqual(got, []string{"a", "", "c"}) {
		t.Fatalf("options must keep positions, got %#v", got)
	}
	if p.Questions[0].CorrectIndex != 2 {
		t.Fatalf("correctIndex: got %d", p.Questions[0].CorrectIndex)
	}
	if p.Questions[1].CorrectIndex != -1 || p.Questions[2].CorrectIndex != -1 {
		t.Fatalf("non-integer or missing correctIndex should be -1: %#v", p.Questions)
	}
	if len(p.Questions[1].Options) != 0 {
		t.Fatalf("empty options should stay empty: %#v", p.Questions[1].Options)
	}
}

func TestDecodeVariantMatchesType(t *testing.T) {
	for _, typ := range Types {
		if got := Decode(typ, []byte(`{}`)).Type(); got != typ {
			t.Fatalf("Decode(%s) produced %s", typ, got)
		}
	}
}
