package tree

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element is the backing element of a real node. Text and tail are kept as
// separate text nodes: text is the first child, tail the next sibling.
// Positions always count element siblings only.
type element struct {
	node *html.Node
	text *html.Node
	tail *html.Node
}

func newElement(tag string) *element {
	return &element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

func (e *element) setAttr(name, value string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *element) removeAttr(name string) {
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool { return a.Key == name })
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) setTag(tag string) {
	e.node.Data = tag
	e.node.DataAtom = atom.Lookup([]byte(tag))
}

func (e *element) setText(s string) {
	switch {
	case s == "" && e.text != nil:
		e.node.RemoveChild(e.text)
		e.text = nil
	case s == "":
	case e.text != nil:
		e.text.Data = s
	default:
		e.text = &html.Node{Type: html.TextNode, Data: s}
		e.node.InsertBefore(e.text, e.node.FirstChild)
	}
}

func (e *element) setTail(s string) {
	switch {
	case s == "" && e.tail != nil:
		if e.tail.Parent != nil {
			e.tail.Parent.RemoveChild(e.tail)
		}
		e.tail = nil
	case s == "":
	case e.tail != nil:
		e.tail.Data = s
	default:
		e.tail = &html.Node{Type: html.TextNode, Data: s}
		if p := e.node.Parent; p != nil {
			p.InsertBefore(e.tail, e.node.NextSibling)
		}
	}
}

// elementAt returns the i-th element child of n, or nil past the end.
func elementAt(n *html.Node, i int) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// attach inserts the element, followed by its tail, before the index-th
// element child of parent.
func (e *element) attach(parent *element, index int) {
	p := parent.node
	ref := elementAt(p, index)
	p.InsertBefore(e.node, ref)
	if e.tail != nil {
		p.InsertBefore(e.tail, ref)
	}
}

// detach removes the element and its tail from their parent.
func (e *element) detach() {
	if p := e.node.Parent; p != nil {
		p.RemoveChild(e.node)
	}
	if e.tail != nil && e.tail.Parent != nil {
		e.tail.Parent.RemoveChild(e.tail)
	}
}

// attachedTo reports whether the element currently sits inside parent.
func (e *element) attachedTo(parent *element) bool {
	return parent != nil && e.node.Parent == parent.node
}

// index returns the position among element siblings.
func (e *element) index() int {
	i := 0
	for c := e.node.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			i++
		}
	}
	return i
}

// moveTo repositions the element among its siblings and reports whether
// anything moved.
func (e *element) moveTo(index int) bool {
	p := e.node.Parent
	if p == nil || e.index() == index {
		return false
	}
	e.detach()
	e.attach(&element{node: p}, index)
	return true
}

// replaceContent drops every child except the text node and appends nodes.
func (e *element) replaceContent(nodes []*html.Node) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		if c != e.text {
			e.node.RemoveChild(c)
		}
		c = next
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		e.node.AppendChild(n)
	}
}

// applySetter mirrors a stored attribute value into the backing element.
func applySetter(n *Node, name string, value, old any) {
	e := n.el
	switch name {
	case "text":
		e.setText(n.text)
	case "tail":
		e.setTail(n.tail)
	case "tag":
		e.setTag(n.tag)
	case "source":
	case "class":
		setOrRemove(e, "class", classString(value))
	case "style":
		setOrRemove(e, "style", styleString(value))
	case "attrs":
		setExtraAttrs(e, value, old)
	default:
		setGeneric(e, n.tag, name, value)
	}
}

func setOrRemove(e *element, name, value string) {
	if value == "" {
		e.removeAttr(name)
		return
	}
	e.setAttr(name, value)
}

// setGeneric writes true as a presence flag (or "true" for enumerated
// attributes), removes the attribute for false or nil and stringifies
// everything else.
func setGeneric(e *element, tag, name string, value any) {
	switch v := value.(type) {
	case nil:
		e.removeAttr(name)
	case bool:
		switch {
		case isEnumBool(tag, name) && v:
			e.setAttr(name, "true")
		case isEnumBool(tag, name):
			e.setAttr(name, "false")
		case v:
			e.setAttr(name, name)
		default:
			e.removeAttr(name)
		}
	case string:
		e.setAttr(name, v)
	case []string:
		e.setAttr(name, strings.Join(v, " "))
	case map[string]string:
		e.setAttr(name, styleString(v))
	}
}

func setExtraAttrs(e *element, value, old any) {
	next, _ := value.(map[string]string)
	prev, _ := old.(map[string]string)
	for k := range prev {
		if _, ok := next[k]; !ok {
			e.removeAttr(k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(next)) {
		e.setAttr(k, next[k])
	}
}

// styleString renders style properties as "k:v;k:v" with sorted keys.
func styleString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]string:
		var b strings.Builder
		for i, k := range slices.Sorted(maps.Keys(x)) {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(k)
			b.WriteByte(':')
			b.WriteString(x[k])
		}
		return b.String()
	}
	return ""
}
