package tree

import (
	"errors"
	"fmt"
	"slices"
)

// Mode is how a bound block places its children relative to the target's.
type Mode uint8

const (
	ModeReplace Mode = iota // Destroy the target's children, take their place
	ModeAppend              // After the target's children
	ModePrepend             // Before the target's children
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeAppend:
		return "append"
	case ModePrepend:
		return "prepend"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "replace", "":
		return ModeReplace, nil
	case "append":
		return ModeAppend, nil
	case "prepend":
		return ModePrepend, nil
	}
	return 0, fmt.Errorf("unknown block mode %q", s)
}

type blockState struct {
	target *Node
	mode   Mode
	bound  bool
	home   *Node // slot marking where the block was declared
}

// NewBlock creates a block. Unbound, its children appear where it is
// declared. Given a target block (see Target), its children are moved next
// to the target's according to its mode.
func NewBlock(args ...any) *Node {
	n := newNode(KindBlock, "")
	n.block = &blockState{}
	n.applyArgs(args)
	return n
}

// Target routes a block's children into another block.
func Target(b *Node) Option {
	return func(n *Node) {
		if n.block != nil {
			n.block.target = b
		}
	}
}

// WithMode sets a block's placement mode.
func WithMode(m Mode) Option {
	return func(n *Node) {
		if n.block != nil {
			n.block.mode = m
		}
	}
}

// Target returns the block this block is routed into, or nil.
func (n *Node) Target() *Node {
	if n.block == nil {
		return nil
	}
	return n.block.target
}

// Mode returns the placement mode of a block.
func (n *Node) Mode() Mode {
	if n.block == nil {
		return ModeReplace
	}
	return n.block.mode
}

// IsBound reports whether a block's children currently sit at its target.
func (n *Node) IsBound() bool {
	return n.block != nil && n.block.bound
}

// SetMode changes the placement mode, re-placing the children of a bound
// block. A bound block cannot leave replace mode: the children it replaced
// are gone.
func (n *Node) SetMode(m Mode) error {
	if n.kind != KindBlock {
		return fmt.Errorf("set mode on %s: %w", n.id, ErrNotBlock)
	}
	old := n.block.mode
	if old == m {
		return nil
	}
	if !n.block.bound {
		n.block.mode = m
		n.fire("mode", m, old)
		return nil
	}
	if old == ModeReplace {
		return fmt.Errorf("%w: block %s to %s", ErrUnsupportedModeTransition, n.id, m)
	}
	n.unbind()
	n.block.mode = m
	n.fire("mode", m, old)
	return n.bind()
}

// SetTarget routes the block into t, or back to where it was declared when
// t is nil.
func (n *Node) SetTarget(t *Node) error {
	if n.kind != KindBlock {
		return fmt.Errorf("set target on %s: %w", n.id, ErrNotBlock)
	}
	old := n.block.target
	if old == t {
		return nil
	}
	if err := n.checkTarget(t); err != nil {
		return err
	}
	if !n.initialized {
		n.block.target = t
		n.fire("target", t, old)
		return nil
	}
	n.unbind()
	n.block.target = t
	n.fire("target", t, old)
	if t == nil {
		return n.goHome()
	}
	return n.bind()
}

// SetChildren replaces the children of a block. Children no longer present
// are destroyed, the rest are re-placed in the new order.
func (n *Node) SetChildren(children []*Node) error {
	if n.kind != KindBlock {
		return fmt.Errorf("set children on %s: %w", n.id, ErrNotBlock)
	}
	if n.destroyed {
		return fmt.Errorf("set children on %s: %w", n.id, ErrDestroyed)
	}
	children = compact(slices.Clone(children))
	keep := make(map[*Node]bool, len(children))
	for _, c := range children {
		keep[c] = true
	}
	for _, it := range slices.Clone(n.items) {
		if !keep[it] {
			it.Destroy()
		}
	}
	for _, c := range children {
		if c.host != nil && c.host != n {
			c.host.dropItem(c)
		}
	}
	n.setItems(children)
	if !n.initialized {
		return nil
	}
	return n.resplice()
}

// insertItem adds c to a block's children before ref.
func (n *Node) insertItem(c, ref *Node) error {
	if ref != nil && ref.host != n {
		return fmt.Errorf("insert before %s: %w", ref.id, ErrChildNotFound)
	}
	if c.host != nil {
		c.host.dropItem(c)
	}
	pos := len(n.items)
	if ref != nil {
		pos = indexOf(n.items, ref)
	}
	n.items = slices.Insert(n.items, pos, c)
	c.host = n
	if !n.initialized || n.parent == nil {
		return nil
	}
	before := n
	if ref != nil {
		before = leading(ref)
	}
	var binds []*Node
	if err := n.parent.insertChildren(before, c.span(&binds), &binds); err != nil {
		return err
	}
	return bindAll(binds)
}

// checkTarget rejects targets that are not blocks or that sit inside the
// block's own output.
func (n *Node) checkTarget(t *Node) error {
	if t == nil {
		return nil
	}
	if t.kind != KindBlock {
		return fmt.Errorf("target %s of %s: %w", t.id, n.id, ErrNotBlock)
	}
	if t.destroyed {
		return fmt.Errorf("target %s of %s: %w", t.id, n.id, ErrDestroyed)
	}
	for p := t; p != nil && p.block != nil; p = p.block.target {
		if p == n {
			return fmt.Errorf("%w: %s into %s", ErrCyclicBlock, n.id, t.id)
		}
	}
	for p := t; p != nil; {
		if p == n {
			return fmt.Errorf("%w: %s into %s", ErrCyclicBlock, n.id, t.id)
		}
		if p.host != nil {
			p = p.host
		} else {
			p = p.parent
		}
	}
	return nil
}

// bind moves the block, with its region, next to its target.
func (n *Node) bind() error {
	t := n.block.target
	if t == nil || n.block.bound {
		return nil
	}
	if err := n.checkTarget(t); err != nil {
		return err
	}
	if !t.initialized || t.parent == nil {
		return fmt.Errorf("bind %s to %s: %w", n.id, t.id, ErrBlockDetached)
	}
	container := t.parent
	var binds []*Node
	span := n.span(&binds)
	for p := container; p != nil; p = p.parent {
		if slices.Contains(span, p) {
			return fmt.Errorf("%w: %s into %s", ErrCyclicBlock, n.id, t.id)
		}
	}

	n.leaveHome()
	var ref *Node
	switch n.block.mode {
	case ModeReplace:
		for _, it := range slices.Clone(t.items) {
			it.Destroy()
		}
		ref = t
		t.items = append(t.items, n)
	case ModeAppend:
		ref = t
		t.items = append(t.items, n)
	case ModePrepend:
		ref = leading(t)
		t.items = slices.Insert(t.items, 0, n)
	}
	n.host = t
	n.block.bound = true
	n.logger().Debug("block bound", "block", n.id, "target", t.id, "mode", n.block.mode)
	if err := container.insertChildren(ref, span, &binds); err != nil {
		return err
	}
	return bindAll(binds)
}

// unbind forgets the current target. The region stays where it is until the
// block is placed again.
func (n *Node) unbind() {
	if !n.block.bound {
		return
	}
	if n.host != nil {
		n.host.dropItem(n)
	}
	n.block.bound = false
}

// leaveHome puts a slot where the block was declared so the block can
// return there later.
func (n *Node) leaveHome() {
	if n.block.home != nil {
		return
	}
	slot := newNode(KindSlot, "")
	slot.initialized = true
	if h := n.host; h != nil {
		h.items[indexOf(h.items, n)] = slot
		slot.host = h
		if h.loop != nil {
			h.loop.replace(n, slot)
		}
		n.host = nil
	}
	if c := n.parent; c != nil {
		c.children = slices.Insert(c.children, indexOf(c.children, n)+1, slot)
		slot.parent = c
	}
	n.block.home = slot
}

// goHome moves an unbound block back to its slot.
func (n *Node) goHome() error {
	slot := n.block.home
	if slot == nil {
		return nil
	}
	if slot.destroyed || slot.parent == nil {
		return fmt.Errorf("return %s home: %w", n.id, ErrBlockDetached)
	}
	c := slot.parent
	if h := slot.host; h != nil {
		h.items[indexOf(h.items, slot)] = n
		n.host = h
		if h.loop != nil {
			h.loop.replace(slot, n)
		}
	}
	var binds []*Node
	if err := c.insertChildren(slot, n.span(&binds), &binds); err != nil {
		return err
	}
	c.detach(slot)
	slot.host = nil
	slot.destroyed = true
	n.block.home = nil
	return bindAll(binds)
}

// bindAll binds blocks collected while expanding patterns. A block whose
// target is not in the tree yet stays where it was declared.
func bindAll(blocks []*Node) error {
	for _, b := range blocks {
		if b.destroyed || b.block == nil || b.block.bound || b.block.target == nil {
			continue
		}
		err := b.bind()
		if errors.Is(err, ErrBlockDetached) {
			b.logger().Debug("block target not placed", "block", b.id, "target", b.block.target.id)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
