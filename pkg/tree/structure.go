package tree

import (
	"fmt"
	"maps"
	"slices"
)

// initialize expands the pattern children of a real node in place and
// recurses into its real children. Blocks with a target are collected in
// binds; they are bound once the surrounding tree is in place.
func (n *Node) initialize(binds *[]*Node) error {
	if n.initErr != nil {
		return fmt.Errorf("node %s: %w", n.id, n.initErr)
	}
	n.initialized = true
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.kind.IsPattern() && !c.initialized {
			for _, r := range c.expand(binds) {
				r.parent = n
				out = append(out, r)
			}
		}
		out = append(out, c)
	}
	n.children = out
	for _, c := range out {
		if c.isReal() && !c.initialized {
			if err := c.initialize(binds); err != nil {
				return err
			}
		}
	}
	return nil
}

// expand generates the contributions of a pattern node on first use and
// returns its region: every contributed node in order, with the region of a
// nested pattern placed right before that pattern's marker.
func (n *Node) expand(binds *[]*Node) []*Node {
	if !n.initialized {
		n.initialized = true
		switch n.kind {
		case KindLooper:
			n.generate()
		case KindConditional:
			if n.cond.value {
				n.setItems(n.cond.tmpl())
			}
		case KindBlock:
			if n.block.target != nil && binds != nil {
				*binds = append(*binds, n)
			}
		}
	}
	var out []*Node
	for _, it := range n.items {
		it.host = n
		if it.kind.IsPattern() {
			out = append(out, it.expand(binds)...)
		}
		out = append(out, it)
	}
	return out
}

// region returns the nodes an initialized pattern contributes, in order.
func (n *Node) region() []*Node {
	if !n.kind.IsPattern() || !n.initialized {
		return nil
	}
	return n.expand(nil)
}

// span returns the region of a pattern followed by its marker, or the node
// itself for real nodes.
func (n *Node) span(binds *[]*Node) []*Node {
	if !n.kind.IsPattern() {
		return []*Node{n}
	}
	return append(n.expand(binds), n)
}

// leading returns the first node of ref's span, the position inserting
// "before ref" really means.
func leading(ref *Node) *Node {
	if ref == nil {
		return nil
	}
	if r := ref.region(); len(r) > 0 {
		return r[0]
	}
	return ref
}

func (n *Node) setItems(items []*Node) {
	n.items = n.items[:0]
	for _, it := range items {
		if it == nil {
			continue
		}
		it.host = n
		n.items = append(n.items, it)
	}
}

// dropItem forgets a contribution without touching its placement.
func (n *Node) dropItem(it *Node) {
	n.items = removeNode(n.items, it)
	if n.loop != nil {
		n.loop.forget(it)
	}
	if it.host == n {
		it.host = nil
	}
}

// activate creates the backing element of n and its real descendants,
// inserting it at index among parent's element children.
func (n *Node) activate(parent *element, index int) error {
	if !n.initialized {
		var binds []*Node
		if err := n.initialize(&binds); err != nil {
			return err
		}
		if err := bindAll(binds); err != nil {
			return err
		}
	}
	if r := n.Root(); r != nil {
		if err := r.register(n); err != nil {
			return err
		}
	}
	el := newElement(n.tag)
	n.el = el
	if parent != nil {
		el.attach(parent, index)
	}
	n.initElement()
	if n.kind == KindRaw {
		if err := n.applySource(); err != nil {
			return err
		}
	}
	i := 0
	for _, c := range n.children {
		if !c.isReal() {
			continue
		}
		if err := c.activate(el, i); err != nil {
			return err
		}
		i++
	}
	return nil
}

// initElement writes the id first and then every attribute in sorted order
// so serialization is deterministic.
func (n *Node) initElement() {
	e := n.el
	e.setAttr("id", n.id)
	e.setText(n.text)
	e.setTail(n.tail)
	for _, k := range slices.Sorted(maps.Keys(n.attrs)) {
		applySetter(n, k, n.attrs[k], nil)
	}
}

// checkInsert rejects edits that would corrupt the tree.
func (n *Node) checkInsert(ref *Node, nodes []*Node) error {
	if n.destroyed {
		return fmt.Errorf("insert into %s: %w", n.id, ErrDestroyed)
	}
	if ref != nil && ref.parent != n {
		return fmt.Errorf("insert before %s: %w", ref.id, ErrChildNotFound)
	}
	seen := make(map[*Node]bool, len(nodes))
	for _, c := range nodes {
		switch {
		case c.destroyed:
			return fmt.Errorf("insert %s: %w", c.id, ErrDestroyed)
		case c == ref, seen[c], c.owner != nil:
			return fmt.Errorf("%w: %s into %s", ErrInvalidInsert, c.id, n.id)
		case c.isReal() && n.kind == KindRaw && n.raw != nil && n.raw.source != "":
			return fmt.Errorf("%w: %s holds raw content", ErrInvalidInsert, n.id)
		}
		seen[c] = true
	}
	for p := n; p != nil; p = p.parent {
		if seen[p] {
			return fmt.Errorf("%w: %s is an ancestor of %s", ErrInvalidInsert, p.id, n.id)
		}
	}
	if n.el != nil {
		if r := n.Root(); r != nil {
			return r.checkIDs(nodes)
		}
	}
	return nil
}

// insertChildren places nodes, in order, directly before ref (nil appends)
// in n's child list. Nodes already in the list are moved, nodes from another
// container are detached there first. Once n is active every step is applied
// to the backing tree as it happens and reported, so each record is valid
// against the state left by the previous one. Nodes already in the right
// relative order are left alone; only the rest produce moved records.
func (n *Node) insertChildren(ref *Node, nodes []*Node, binds *[]*Node) error {
	if err := n.checkInsert(ref, nodes); err != nil {
		return err
	}
	for _, c := range nodes {
		if c.parent != nil && c.parent != n {
			c.parent.detach(c)
		}
	}
	if !n.initialized {
		for _, c := range nodes {
			n.children = removeNode(n.children, c)
			c.parent = n
		}
		pos := len(n.children)
		if ref != nil {
			pos = indexOf(n.children, ref)
		}
		n.children = slices.Insert(n.children, pos, nodes...)
		return nil
	}
	for _, c := range nodes {
		if c.isReal() && !c.initialized {
			if err := c.initialize(binds); err != nil {
				return err
			}
		}
	}

	want := spliceBefore(n.children, ref, nodes)
	stable := stableSet(n.children, want)
	var anchor *Node
	for i := len(want) - 1; i >= 0; i-- {
		x := want[i]
		if !stable[x] {
			if err := n.place(x, anchor); err != nil {
				return err
			}
		}
		anchor = x
	}
	return nil
}

// spliceBefore returns cur with nodes moved to sit directly before ref.
func spliceBefore(cur []*Node, ref *Node, nodes []*Node) []*Node {
	moving := make(map[*Node]bool, len(nodes))
	for _, c := range nodes {
		moving[c] = true
	}
	out := make([]*Node, 0, len(cur)+len(nodes))
	for _, c := range cur {
		if c == ref {
			out = append(out, nodes...)
		}
		if !moving[c] {
			out = append(out, c)
		}
	}
	if ref == nil {
		out = append(out, nodes...)
	}
	return out
}

// stableSet returns the largest set of nodes of cur that already appear in
// the order of want. Only the others need to move.
func stableSet(cur, want []*Node) map[*Node]bool {
	pos := make(map[*Node]int, len(want))
	for i, x := range want {
		pos[x] = i
	}
	seq := make([]int, len(cur))
	for i, c := range cur {
		seq[i] = pos[c]
	}
	stable := make(map[*Node]bool, len(cur))
	for _, i := range longestIncreasing(seq) {
		stable[cur[i]] = true
	}
	return stable
}

// longestIncreasing returns the indexes of a longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []int {
	var tails []int // index into seq of the smallest tail for each length
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	out := make([]int, len(tails))
	k := -1
	if len(tails) > 0 {
		k = tails[len(tails)-1]
	}
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = k
		k = prev[k]
	}
	return out
}

// place moves or inserts a single node directly before ref and mirrors the
// step into the backing tree.
func (n *Node) place(x, ref *Node) error {
	n.children = removeNode(n.children, x)
	pos := len(n.children)
	if ref != nil {
		pos = indexOf(n.children, ref)
	}
	n.children = slices.Insert(n.children, pos, x)
	x.parent = n
	if n.el == nil || !x.isReal() {
		return nil
	}
	idx, err := ChildIndex(n, x)
	if err != nil {
		return err
	}
	switch {
	case x.el == nil:
		if err := x.activate(n.el, idx); err != nil {
			return err
		}
		n.childAdded(x, idx)
	case !x.el.attachedTo(n.el):
		x.el.attach(n.el, idx)
		n.childAdded(x, idx)
	case x.el.moveTo(idx):
		n.childMoved(x, idx)
	}
	return nil
}

func (n *Node) childAdded(c *Node, idx int) {
	if !n.notifying() {
		return
	}
	ch := Change{
		ID:    n.id,
		Type:  ChangeAdded,
		Name:  ChildrenName,
		Value: c.el.outerHTML(),
		Index: &idx,
	}
	if next := nextReal(n, c); next != nil {
		ch.Before = next.id
	}
	n.emit(ch)
}

func (n *Node) childMoved(c *Node, idx int) {
	ch := Change{
		ID:    n.id,
		Type:  ChangeMoved,
		Name:  ChildrenName,
		Value: c.id,
		Index: &idx,
	}
	if next := nextReal(n, c); next != nil {
		ch.Before = next.id
	}
	n.emit(ch)
}

// detach removes c from n's child list and the backing tree, reporting a
// removed record when an element actually left the page.
func (n *Node) detach(c *Node) {
	if indexOf(n.children, c) < 0 {
		return
	}
	n.children = removeNode(n.children, c)
	c.parent = nil
	if !c.isReal() || c.el == nil || !c.el.attachedTo(n.el) {
		return
	}
	c.el.detach()
	n.emit(Change{
		ID:    n.id,
		Type:  ChangeRemoved,
		Name:  ChildrenName,
		Value: c.id,
	})
}

// detachSpan detaches c and, for patterns, the region in front of it.
func detachSpan(c *Node) {
	for _, x := range c.span(nil) {
		if x.parent != nil {
			x.parent.detach(x)
		}
	}
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) error {
	return n.InsertBefore(c, nil)
}

// InsertBefore inserts c before ref, or appends it when ref is nil. Pattern
// nodes are inserted together with the children they contribute, and
// inserting before a pattern means before its first contribution. A node
// that is already placed somewhere is moved.
func (n *Node) InsertBefore(c, ref *Node) error {
	if c == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidInsert)
	}
	switch n.kind {
	case KindBlock:
		return n.insertItem(c, ref)
	case KindLooper, KindConditional, KindSlot:
		return fmt.Errorf("%w: children of %s %s are generated", ErrInvalidInsert, n.kind, n.id)
	}
	if ref != nil && ref.parent != n {
		return fmt.Errorf("insert before %s: %w", ref.id, ErrChildNotFound)
	}
	if c.host != nil {
		c.host.dropItem(c)
	}
	var binds []*Node
	var nodes []*Node
	if n.initialized || c.initialized {
		nodes = c.span(&binds)
	} else {
		nodes = []*Node{c}
	}
	if err := n.insertChildren(leading(ref), nodes, &binds); err != nil {
		return err
	}
	return bindAll(binds)
}

// RemoveChild detaches c from n without destroying it. A removed pattern
// takes its contributions with it.
func (n *Node) RemoveChild(c *Node) error {
	if n.kind.IsPattern() {
		if c.host != n {
			return fmt.Errorf("remove %s from %s: %w", c.id, n.id, ErrChildNotFound)
		}
		n.dropItem(c)
		detachSpan(c)
		return nil
	}
	if c.parent != n {
		return fmt.Errorf("remove %s from %s: %w", c.id, n.id, ErrChildNotFound)
	}
	if c.host != nil {
		c.host.dropItem(c)
	}
	detachSpan(c)
	return nil
}

// Destroy removes the node from its parent and the page, tears down its
// descendants and evicts them from the Root cache. Destroying twice is a
// no-op.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	r := n.Root()
	if n.parent != nil {
		n.parent.detach(n)
	}
	if n.host != nil {
		n.host.dropItem(n)
	}
	n.teardown(r)
}

func (n *Node) teardown(r *Root) {
	if n.destroyed {
		return
	}
	n.destroyed = true
	if n.kind.IsPattern() {
		items := slices.Clone(n.items)
		n.items = nil
		for _, it := range items {
			it.host = nil
			if it.parent != nil {
				it.parent.detach(it)
			}
			it.teardown(r)
		}
		if n.loop != nil {
			n.loop.entries = nil
		}
		if n.block != nil && n.block.home != nil {
			n.block.home.Destroy()
			n.block.home = nil
		}
	} else {
		kids := n.children
		n.children = nil
		for _, c := range kids {
			c.parent = nil
		}
		for _, c := range kids {
			c.teardown(r)
		}
	}
	if r != nil {
		r.evict(n)
	}
	n.el = nil
}
