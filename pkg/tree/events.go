package tree

import "slices"

// Event is a client interaction delivered to a node.
type Event struct {
	Name    string
	Target  *Node
	Payload map[string]any
}

// EventHandler binds a handler at construction time.
type EventHandler struct {
	Event   string
	Handler func(Event)
}

// OnEvent creates an EventHandler for the named event.
func OnEvent(name string, fn func(Event)) EventHandler {
	return EventHandler{Event: name, Handler: fn}
}

// OnClick creates a click handler.
func OnClick(fn func(Event)) EventHandler { return OnEvent("click", fn) }

// OnInput creates an input handler.
func OnInput(fn func(Event)) EventHandler { return OnEvent("input", fn) }

// OnChange creates a change handler.
func OnChange(fn func(Event)) EventHandler { return OnEvent("change", fn) }

// OnSubmit creates a submit handler.
func OnSubmit(fn func(Event)) EventHandler { return OnEvent("submit", fn) }

type handler struct {
	fn func(Event)
}

type observer struct {
	fn func(value, old any)
}

// On registers fn for the named event and returns a function removing it.
func (n *Node) On(name string, fn func(Event)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	if n.handlers == nil {
		n.handlers = make(map[string][]*handler)
	}
	h := &handler{fn: fn}
	n.handlers[name] = append(n.handlers[name], h)
	return func() {
		n.handlers[name] = slices.DeleteFunc(n.handlers[name], func(x *handler) bool { return x == h })
	}
}

// Trigger runs the handlers registered for name and reports whether any ran.
func (n *Node) Trigger(name string, payload map[string]any) bool {
	hs := slices.Clone(n.handlers[name])
	if len(hs) == 0 || n.destroyed {
		return false
	}
	ev := Event{Name: name, Target: n, Payload: payload}
	for _, h := range hs {
		h.fn(ev)
	}
	return true
}

// Observe registers fn to run whenever the named attribute or property
// actually changes, active or not. It returns a function removing fn.
func (n *Node) Observe(name string, fn func(value, old any)) (cancel func()) {
	if n.observers == nil {
		n.observers = make(map[string][]*observer)
	}
	o := &observer{fn: fn}
	n.observers[name] = append(n.observers[name], o)
	return func() {
		n.observers[name] = slices.DeleteFunc(n.observers[name], func(x *observer) bool { return x == o })
	}
}

func (n *Node) fire(name string, value, old any) {
	for _, o := range slices.Clone(n.observers[name]) {
		o.fn(value, old)
	}
}
