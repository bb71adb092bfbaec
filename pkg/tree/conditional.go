package tree

import (
	"fmt"
	"slices"
)

type condState struct {
	value bool
	tmpl  func() []*Node
}

// When creates a pattern node contributing tmpl's nodes while cond holds.
// The nodes are generated afresh each time the condition becomes true.
func When(cond bool, tmpl func() []*Node) *Node {
	n := newNode(KindConditional, "")
	n.cond = &condState{value: cond, tmpl: tmpl}
	return n
}

// Condition reports the current condition of a conditional node.
func (n *Node) Condition() bool {
	return n.cond != nil && n.cond.value
}

// SetCondition switches a conditional node on or off.
func (n *Node) SetCondition(v bool) error {
	if n.kind != KindConditional {
		return fmt.Errorf("%w: %s %s is not a conditional", ErrInvalidInsert, n.kind, n.id)
	}
	if n.destroyed {
		return fmt.Errorf("set condition on %s: %w", n.id, ErrDestroyed)
	}
	if n.cond.value == v {
		return nil
	}
	n.cond.value = v
	n.fire("condition", v, !v)
	if !n.initialized {
		return nil
	}
	if v {
		n.setItems(compact(n.cond.tmpl()))
		return n.resplice()
	}
	items := slices.Clone(n.items)
	n.items = nil
	for _, it := range items {
		it.host = nil
		it.Destroy()
	}
	return nil
}
