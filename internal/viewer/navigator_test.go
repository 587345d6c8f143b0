package viewer

import "testing"

func items(orders ...int) []Subsection {
	out := make([]Subsection, len(orders))
	for i, o := range orders {
		out[i] = Subsection{ID: string(rune('a' + i)), Order: o}
	}
	return out
}

func TestNavigatorSortsStably(t *testing.T) {
	n := NewNavigator(items(2, 1, 2, 0))
	var got string
	for _, s := range n.Items() {
		got += s.ID
	}
	if got != "dbac" {
		t.Fatalf("order: got=%s want=dbac", got)
	}
	if n.Index() != 0 {
		t.Fatalf("first subsection should be active, got %d", n.Index())
	}
}

func TestNavigatorOutOfRangeSelectIsNoop(t *testing.T) {
	n := NewNavigator(items(1, 2, 3))
	n.Select(1)
	token := n.ScrollToken()

	if n.Select(-1) || n.Select(3) {
		t.Fatal("out of range select reported success")
	}
	if n.Index() != 1 {
		t.Fatalf("active index changed: %d", n.Index())
	}
	if n.ScrollToken() != token {
		t.Fatal("ignored select must not scroll")
	}
}

func TestNavigatorBoundaries(t *testing.T) {
	n := NewNavigator(items(1, 2, 3))
	if n.Previous() || n.Index() != 0 {
		t.Fatalf("previous at 0 moved to %d", n.Index())
	}
	if n.HasPrevious() {
		t.Fatal("previous should be disabled at 0")
	}
	n.Next()
	n.Next()
	if n.Next() || n.Index() != 2 {
		t.Fatalf("next at last moved to %d", n.Index())
	}
	if n.HasNext() {
		t.Fatal("next should be disabled at the last subsection")
	}
}

func TestNavigatorEmpty(t *testing.T) {
	n := NewNavigator(nil)
	if n.Index() != -1 {
		t.Fatalf("empty navigator index: got=%d want=-1", n.Index())
	}
	if _, ok := n.Active(); ok {
		t.Fatal("empty navigator has no active subsection")
	}
	if n.Next() || n.Previous() || n.Select(0) || n.HasNext() || n.HasPrevious() {
		t.Fatal("navigation on an empty sequence must be a no-op")
	}
}

func TestNavigatorSelectNotifies(t *testing.T) {
	n := NewNavigator(items(1, 2, 3))
	var calls [][2]int
	n.OnSelect(func(prev, next int) { calls = append(calls, [2]int{prev, next}) })

	n.Select(2)
	n.Previous()
	if len(calls) != 2 || calls[0] != [2]int{0, 2} || calls[1] != [2]int{2, 1} {
		t.Fatalf("unexpected notifications: %v", calls)
	}
	if n.ScrollToken() != 2 {
		t.Fatalf("scroll token: got=%d want=2", n.ScrollToken())
	}
}
