package tree

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type rawState struct {
	source string
	frags  []*html.Node
}

// Converter turns content in some source format (markdown, notebooks,
// highlighted code) into HTML for a raw node.
type Converter interface {
	Convert(source string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(source string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(source string) (string, error) { return f(source) }

// NewRaw creates a node whose content is parsed from HTML source instead of
// declared children. The tag defaults to div.
func NewRaw(tag string, args ...any) *Node {
	if tag == "" {
		tag = "div"
	}
	n := newNode(KindRaw, tag)
	n.raw = &rawState{}
	n.applyArgs(args)
	return n
}

// Source sets the HTML source of a raw node at construction time.
func Source(src string) Attr { return Prop("source", src) }

// Source returns the HTML source of a raw node.
func (n *Node) Source() string {
	if n.raw == nil {
		return ""
	}
	return n.raw.source
}

// SetSource replaces the content of a raw node with the parsed source.
// Declared children are destroyed. The change is reported as an update of
// "source" carrying the new markup.
func (n *Node) SetSource(src string) error {
	if n.kind != KindRaw {
		return fmt.Errorf("%w: %s %s is not raw", ErrInvalidAttribute, n.kind, n.id)
	}
	return n.Set("source", src)
}

// SetConverted converts src and uses the result as source.
func (n *Node) SetConverted(c Converter, src string) error {
	out, err := c.Convert(src)
	if err != nil {
		return &ParseError{NodeID: n.id, Err: err}
	}
	return n.SetSource(out)
}

// SetFragments replaces the content of a raw node with already parsed
// nodes. The nodes are taken over and must not be used elsewhere.
func (n *Node) SetFragments(nodes []*html.Node) error {
	if n.kind != KindRaw {
		return fmt.Errorf("%w: %s %s is not raw", ErrInvalidAttribute, n.kind, n.id)
	}
	var buf bytes.Buffer
	for _, f := range nodes {
		if err := html.Render(&buf, f); err != nil {
			return &ParseError{NodeID: n.id, Err: err}
		}
	}
	src := buf.String()
	old := n.raw.source
	n.raw.source = src
	n.raw.frags = nodes
	n.clearChildren()
	if n.el != nil {
		n.el.replaceContent(nodes)
	}
	n.changed("source", src, old)
	return nil
}

func (n *Node) setSource(src string) error {
	if src == n.raw.source && n.raw.frags == nil {
		return nil
	}
	frags, err := parseFragment(n.tag, src)
	if err != nil {
		return &ParseError{NodeID: n.id, Err: err}
	}
	old := n.raw.source
	n.raw.source = src
	n.raw.frags = nil
	n.clearChildren()
	if n.el != nil {
		n.el.replaceContent(frags)
	}
	n.changed("source", src, old)
	return nil
}

func (n *Node) clearChildren() {
	for _, c := range append([]*Node(nil), n.children...) {
		c.Destroy()
	}
}

// applySource fills a freshly activated raw element.
func (n *Node) applySource() error {
	switch {
	case n.raw.frags != nil:
		n.el.replaceContent(n.raw.frags)
	case n.raw.source != "":
		frags, err := parseFragment(n.tag, n.raw.source)
		if err != nil {
			return &ParseError{NodeID: n.id, Err: err}
		}
		n.el.replaceContent(frags)
	}
	return nil
}

func parseFragment(tag, src string) ([]*html.Node, error) {
	if src == "" {
		return nil, nil
	}
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return html.ParseFragment(strings.NewReader(src), context)
}
