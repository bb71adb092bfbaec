package tree

import (
	"fmt"
	"slices"
)

// Option configures a node at construction time.
type Option func(*Node)

type loopEntry struct {
	key   string
	nodes []*Node
}

type loopState struct {
	items   []any
	tmpl    func(i int, item any) []*Node
	key     func(item any) string
	entries []loopEntry
}

func defaultKey(item any) string {
	return fmt.Sprintf("%T:%v", item, item)
}

// forget drops a node from whatever entry generated it.
func (l *loopState) forget(n *Node) {
	for i := range l.entries {
		l.entries[i].nodes = removeNode(l.entries[i].nodes, n)
	}
}

func (l *loopState) replace(old, n *Node) {
	for i := range l.entries {
		if j := indexOf(l.entries[i].nodes, old); j >= 0 {
			l.entries[i].nodes[j] = n
		}
	}
}

// Loop creates a pattern node generating tmpl's nodes for every item.
//
// Generated nodes are remembered per item key. When the items change, nodes
// of items that survive are reused and only moved if their position
// changed, nodes of new items are generated and nodes of dropped items are
// destroyed.
func Loop(items []any, tmpl func(i int, item any) []*Node, opts ...Option) *Node {
	n := newNode(KindLooper, "")
	n.loop = &loopState{
		items: slices.Clone(items),
		tmpl:  tmpl,
		key:   defaultKey,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// LoopOf is Loop for a typed slice.
func LoopOf[T any](items []T, tmpl func(i int, item T) []*Node, opts ...Option) *Node {
	return Loop(toAny(items), func(i int, item any) []*Node {
		return tmpl(i, item.(T))
	}, opts...)
}

// LoopKey sets the function identifying items across updates. The default
// key is the item's type and printed value.
func LoopKey(fn func(item any) string) Option {
	return func(n *Node) {
		if n.loop != nil && fn != nil {
			n.loop.key = fn
		}
	}
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Items returns the items of a looper.
func (n *Node) Items() []any {
	if n.loop == nil {
		return nil
	}
	return slices.Clone(n.loop.items)
}

// SetItems replaces the items of a looper and updates its output.
func (n *Node) SetItems(items []any) error {
	if n.kind != KindLooper {
		return fmt.Errorf("%w: %s %s is not a looper", ErrInvalidInsert, n.kind, n.id)
	}
	if n.destroyed {
		return fmt.Errorf("set items on %s: %w", n.id, ErrDestroyed)
	}
	old := n.loop.items
	n.loop.items = slices.Clone(items)
	n.fire("items", n.loop.items, old)
	if !n.initialized {
		return nil
	}
	return n.refresh()
}

// generate builds one entry per item.
func (n *Node) generate() {
	l := n.loop
	l.entries = l.entries[:0]
	var items []*Node
	for i, it := range l.items {
		nodes := compact(l.tmpl(i, it))
		l.entries = append(l.entries, loopEntry{key: l.key(it), nodes: nodes})
		items = append(items, nodes...)
	}
	n.setItems(items)
}

// refresh reconciles the entries with the current items. Duplicate keys are
// matched first come, first served.
func (n *Node) refresh() error {
	l := n.loop
	byKey := make(map[string][]int, len(l.entries))
	for i, e := range l.entries {
		byKey[e.key] = append(byKey[e.key], i)
	}
	used := make([]bool, len(l.entries))
	next := make([]loopEntry, 0, len(l.items))
	for i, it := range l.items {
		k := l.key(it)
		if q := byKey[k]; len(q) > 0 {
			byKey[k] = q[1:]
			used[q[0]] = true
			next = append(next, l.entries[q[0]])
			continue
		}
		next = append(next, loopEntry{key: k, nodes: compact(l.tmpl(i, it))})
	}
	old := l.entries
	l.entries = next
	for i, e := range old {
		if used[i] {
			continue
		}
		for _, x := range e.nodes {
			x.host = nil
			x.Destroy()
		}
	}
	var items []*Node
	for _, e := range next {
		items = append(items, e.nodes...)
	}
	n.setItems(items)
	return n.resplice()
}

// resplice puts the region of a placed pattern, in order, directly before
// its marker.
func (n *Node) resplice() error {
	if n.parent == nil {
		return nil
	}
	var binds []*Node
	if err := n.parent.insertChildren(n, n.expand(&binds), &binds); err != nil {
		return err
	}
	return bindAll(binds)
}

func compact(nodes []*Node) []*Node {
	return slices.DeleteFunc(nodes, func(n *Node) bool { return n == nil })
}
