package tree

import (
	"fmt"
	"log/slog"
	"slices"
)

// Node is a declarative UI node.
//
// Real nodes (elements and raw content) own a backing element once active.
// Pattern nodes stay in their parent's child list as invisible markers; the
// children they contribute sit directly before them in the same list.
type Node struct {
	id   string
	kind Kind
	tag  string
	text string
	tail string

	attrs map[string]any // markup attributes, including class and style
	state map[string]any // observable properties never written to markup

	children []*Node
	parent   *Node // container holding this node, non-owning
	host     *Node // pattern that contributed this node
	owner    *Root // set on the top node of a Root only

	el          *element
	initialized bool
	destroyed   bool
	initErr     error

	observers map[string][]*observer
	handlers  map[string][]*handler

	items []*Node // contributions of a pattern node
	loop  *loopState
	cond  *condState
	block *blockState
	raw   *rawState
}

func newNode(kind Kind, tag string) *Node {
	return &Node{
		id:    newID(),
		kind:  kind,
		tag:   tag,
		attrs: make(map[string]any),
	}
}

// New creates an element node with the given tag.
//
// Arguments may be Attr, []Attr, *Node, []*Node, string (text content),
// EventHandler, Option or nil. Nil arguments are ignored so callers can
// build attribute lists conditionally.
func New(tag string, args ...any) *Node {
	n := newNode(KindElement, tag)
	n.applyArgs(args)
	return n
}

func (n *Node) applyArgs(args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			n.initAttr(v)

		case []Attr:
			for _, a := range v {
				n.initAttr(a)
			}

		case *Node:
			if v != nil {
				n.addInitial(v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					n.addInitial(child)
				}
			}

		case string:
			n.text += v

		case EventHandler:
			n.On(v.Event, v.Handler)

		case Option:
			v(n)
		}
	}
}

// initAttr stores a construction-time attribute. Schema violations are
// reported when the tree is prepared.
func (n *Node) initAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.state {
		if n.state == nil {
			n.state = make(map[string]any)
		}
		n.state[a.Key] = a.Value
		return
	}
	if a.Key == "id" {
		if s, ok := a.Value.(string); ok && s != "" {
			n.id = s
		}
		return
	}
	if a.Key == "source" && n.kind != KindRaw {
		if n.initErr == nil {
			n.initErr = fmt.Errorf("%w: %s %s is not raw", ErrInvalidAttribute, n.kind, n.id)
		}
		return
	}
	v, err := normalizeValue(a.Key, a.Value)
	if err == nil {
		err = validateAttr(n.tag, a.Key, v)
	}
	if err != nil {
		if n.initErr == nil {
			n.initErr = err
		}
		return
	}
	n.put(a.Key, v)
}

// addInitial appends a construction-time child. Children of pattern nodes
// become their contributions.
func (n *Node) addInitial(child *Node) {
	if n.kind.IsPattern() {
		child.host = n
		n.items = append(n.items, child)
		return
	}
	child.parent = n
	n.children = append(n.children, child)
}

// ID returns the node id.
func (n *Node) ID() string { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag name.
func (n *Node) Tag() string { return n.tag }

// Text returns the text content preceding the first child.
func (n *Node) Text() string { return n.text }

// Tail returns the text following the element inside its parent.
func (n *Node) Tail() string { return n.tail }

// Parent returns the container this node is placed in, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Host returns the pattern node that contributed this node, or nil.
func (n *Node) Host() *Node { return n.host }

// Children returns a copy of the child list. For pattern nodes this is the
// list of contributed nodes.
func (n *Node) Children() []*Node {
	if n.kind.IsPattern() {
		return slices.Clone(n.items)
	}
	return slices.Clone(n.children)
}

// IsActive reports whether the node has a backing element.
func (n *Node) IsActive() bool { return n.el != nil }

// IsDestroyed reports whether Destroy has been called.
func (n *Node) IsDestroyed() bool { return n.destroyed }

// Root returns the Root this node belongs to, or nil if it is not attached.
func (n *Node) Root() *Root {
	for p := n; p != nil; {
		if p.owner != nil {
			return p.owner
		}
		if p.parent != nil {
			p = p.parent
		} else {
			p = p.host
		}
	}
	return nil
}

func (n *Node) isReal() bool {
	return !n.kind.IsPattern()
}

func (n *Node) logger() *slog.Logger {
	if r := n.Root(); r != nil {
		return r.logger
	}
	return slog.Default()
}

// emit forwards a change to the Root's listeners once the Root has rendered.
func (n *Node) emit(c Change) {
	r := n.Root()
	if r == nil || !r.rendered {
		return
	}
	r.dispatch(c)
}

// notifying reports whether emit would reach anybody. Used to skip building
// expensive record values.
func (n *Node) notifying() bool {
	r := n.Root()
	return r != nil && r.rendered && len(r.listeners) > 0
}

func indexOf(nodes []*Node, n *Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func removeNode(nodes []*Node, n *Node) []*Node {
	if i := indexOf(nodes, n); i >= 0 {
		return slices.Delete(nodes, i, i+1)
	}
	return nodes
}
