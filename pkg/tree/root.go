package tree

import (
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/net/html"
)

// Root is the top of a page tree. It owns the id cache used to map backing
// elements back to nodes, the listeners receiving changes and the rendered
// flag gating change emission.
type Root struct {
	*Node

	cache     map[string]*Node
	listeners []*listener
	rendered  bool
	doc       *element
	logger    *slog.Logger
}

type listener struct {
	fn func(Change)
}

// RootOption configures a Root.
type RootOption func(*Root)

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) RootOption {
	return func(r *Root) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRoot creates a Root whose top node is an <html> element built from args.
// RootOption values may be mixed into args.
func NewRoot(args ...any) *Root {
	var opts []RootOption
	rest := args[:0:0]
	for _, a := range args {
		if o, ok := a.(RootOption); ok {
			opts = append(opts, o)
			continue
		}
		rest = append(rest, a)
	}
	r := &Root{
		Node:   New("html", rest...),
		cache:  make(map[string]*Node),
		logger: slog.Default(),
	}
	r.Node.owner = r
	for _, o := range opts {
		o(r)
	}
	return r
}

// Prepare expands pattern nodes, binds blocks and activates the tree. It is
// called lazily by Render and is a no-op once the Root is active.
func (r *Root) Prepare() error {
	if r.el != nil {
		return nil
	}
	if !r.initialized {
		var binds []*Node
		if err := r.Node.initialize(&binds); err != nil {
			return err
		}
		if err := bindAll(binds); err != nil {
			return err
		}
	}
	r.doc = &element{node: &html.Node{Type: html.DocumentNode}}
	return r.Node.activate(r.doc, 0)
}

// Rendered reports whether the Root has been rendered. Changes are only
// emitted afterwards.
func (r *Root) Rendered() bool { return r.rendered }

// Lookup returns the active node with the given id.
func (r *Root) Lookup(id string) (*Node, bool) {
	n, ok := r.cache[id]
	if !ok || n.destroyed {
		return nil, false
	}
	return n, true
}

// OnModified registers fn to receive every change after the first render.
// Listeners run synchronously in mutation order. It returns a function
// removing fn.
func (r *Root) OnModified(fn func(Change)) (cancel func()) {
	l := &listener{fn: fn}
	r.listeners = append(r.listeners, l)
	return func() {
		r.listeners = slices.DeleteFunc(r.listeners, func(x *listener) bool { return x == l })
	}
}

func (r *Root) dispatch(c Change) {
	for _, l := range slices.Clone(r.listeners) {
		l.fn(c)
	}
}

// register claims n's id. An id held by another live node is an error.
func (r *Root) register(n *Node) error {
	if o, ok := r.cache[n.id]; ok && o != n && !o.destroyed {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.id)
	}
	r.cache[n.id] = n
	return nil
}

// checkIDs rejects inactive nodes whose id, or a descendant's, is held by a
// live node or repeated among them.
func (r *Root) checkIDs(nodes []*Node) error {
	seen := make(map[string]bool)
	var walk func(c *Node) error
	walk = func(c *Node) error {
		if c.el != nil {
			return nil
		}
		if c.isReal() {
			o, ok := r.cache[c.id]
			if seen[c.id] || (ok && o != c && !o.destroyed) {
				return fmt.Errorf("%w: %s", ErrDuplicateID, c.id)
			}
			seen[c.id] = true
		}
		for _, k := range c.children {
			if err := walk(k); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range nodes {
		if err := walk(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) evict(n *Node) {
	if r.cache[n.id] == n {
		delete(r.cache, n.id)
	}
}
