package content

import "testing"

func TestRichTextMarkup(t *testing.T) {
	n, ok := RichText("<b>x</b>")
	if !ok || n.Kind != KindMarkup {
		t.Fatalf("expected markup node, got ok=%v kind=%d", ok, n.Kind)
	}
	if got := string(HTML(n)); got != "<b>x</b>" {
		t.Fatalf("markup should be embedded verbatim, got %q", got)
	}
}

func TestRichTextLeadingWhitespaceStillMarkup(t *testing.T) {
	n, ok := RichText("  \n<p>para</p>")
	if !ok || n.Kind != KindMarkup {
		t.Fatalf("expected markup node, got ok=%v kind=%d", ok, n.Kind)
	}
}

func TestRichTextPlain(t *testing.T) {
	n, ok := RichText("plain text")
	if !ok || n.Kind != KindText {
		t.Fatalf("expected text node, got ok=%v kind=%d", ok, n.Kind)
	}
	if got := string(HTML(n)); got != "plain text" {
		t.Fatalf("got %q", got)
	}
}

func TestRichTextPlainIsNotInterpreted(t *testing.T) {
	n, _ := RichText("a < b and <i>not markup</i>")
	if got := string(HTML(n)); got != "a &lt; b and &lt;i&gt;not markup&lt;/i&gt;" {
		t.Fatalf("plain text must be escaped, got %q", got)
	}
}

func TestRichTextBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t"} {
		if _, ok := RichText(s); ok {
			t.Fatalf("RichText(%q) should render nothing", s)
		}
	}
}
