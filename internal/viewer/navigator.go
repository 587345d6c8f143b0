package viewer

import "sort"

// Navigator 记录当前小节，非并发安全，由 View 串行访问
type Navigator struct {
	items    []Subsection
	active   int
	scrolls  int
	onSelect func(prev, next int)
}

// NewNavigator 按 Order 稳定排序并激活第一个小节，列表为空时没有当前小节
func NewNavigator(items []Subsection) *Navigator {
	sorted := make([]Subsection, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	n := &Navigator{items: sorted, active: -1}
	if len(sorted) > 0 {
		n.active = 0
	}
	return n
}

// OnSelect 注册切换成功后的回调
func (n *Navigator) OnSelect(fn func(prev, next int)) {
	n.onSelect = fn
}

func (n *Navigator) Len() int { return len(n.items) }

// Index 当前下标，没有当前小节时为 -1
func (n *Navigator) Index() int { return n.active }

func (n *Navigator) Items() []Subsection { return n.items }

func (n *Navigator) Active() (Subsection, bool) {
	if n.active < 0 {
		return Subsection{}, false
	}
	return n.items[n.active], true
}

// Select 激活下标 i 并触发回到顶部，越界下标忽略
func (n *Navigator) Select(i int) bool {
	if i < 0 || i >= len(n.items) {
		return false
	}
	prev := n.active
	n.active = i
	n.scrolls++
	if n.onSelect != nil {
		n.onSelect(prev, i)
	}
	return true
}

func (n *Navigator) Next() bool {
	if !n.HasNext() {
		return false
	}
	return n.Select(n.active + 1)
}

func (n *Navigator) Previous() bool {
	if !n.HasPrevious() {
		return false
	}
	return n.Select(n.active - 1)
}

func (n *Navigator) HasNext() bool {
	return n.active >= 0 && n.active < len(n.items)-1
}

func (n *Navigator) HasPrevious() bool {
	return n.active > 0
}

// ScrollToken 每次切换加一，客户端发现变化时滚动到顶部
func (n *Navigator) ScrollToken() int { return n.scrolls }
