package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
)

// ErrInactive is returned when rendering a node that has no backing element,
// such as a pattern node or a node hidden by a false conditional.
var ErrInactive = errors.New("node not active")

// Format selects the serialization of Render.
type Format uint8

const (
	FormatHTML     Format = iota // Markup as stored
	FormatMinified               // Whitespace and redundant syntax removed
)

// String returns the string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMinified:
		return "minified"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "html", "":
		return FormatHTML, nil
	case "minified", "min":
		return FormatMinified, nil
	}
	return 0, fmt.Errorf("unknown render format %q", s)
}

// RenderOptions configures RenderTo. Output is always UTF-8.
type RenderOptions struct {
	Format  Format
	Doctype bool
	Attrs   []Attr
}

var minifier = func() *minify.M {
	m := minify.New()
	m.Add("text/html", &mhtml.Minifier{
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	return m
}()

// Render serializes the node as HTML. Attributes given are applied through
// Set first. The tree is prepared on first use; rendering again serializes
// the same backing tree and produces identical output.
func (n *Node) Render(attrs ...Attr) (string, error) {
	var buf bytes.Buffer
	if err := n.RenderTo(&buf, RenderOptions{Attrs: attrs}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo writes the node to w. Once it returns, changes to the tree are
// reported to the Root's listeners.
func (n *Node) RenderTo(w io.Writer, opts RenderOptions) error {
	for _, a := range opts.Attrs {
		if err := n.applyAttr(a); err != nil {
			return err
		}
	}
	if err := n.ensureActive(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if opts.Doctype {
		buf.WriteString("<!DOCTYPE html>\n")
	}
	if err := html.Render(&buf, n.el.node); err != nil {
		return fmt.Errorf("render %s: %w", n.id, err)
	}
	out := buf.Bytes()
	if opts.Format == FormatMinified {
		small, err := minifier.Bytes("text/html", out)
		if err != nil {
			return fmt.Errorf("minify %s: %w", n.id, err)
		}
		out = small
	}
	if r := n.Root(); r != nil {
		r.rendered = true
	}
	_, err := w.Write(out)
	return err
}

func (n *Node) applyAttr(a Attr) error {
	switch {
	case a.Key == "":
		return nil
	case a.state:
		n.SetState(a.Key, a.Value)
		return nil
	case a.Key == "id":
		return nil
	}
	return n.Set(a.Key, a.Value)
}

// ensureActive prepares the Root the node belongs to, or activates a
// detached node on its own.
func (n *Node) ensureActive() error {
	if n.el != nil {
		return nil
	}
	if n.destroyed {
		return fmt.Errorf("render %s: %w", n.id, ErrDestroyed)
	}
	if n.kind.IsPattern() {
		return fmt.Errorf("render %s %s: %w", n.kind, n.id, ErrInactive)
	}
	r := n.Root()
	if r == nil {
		return n.activate(nil, 0)
	}
	if err := r.Prepare(); err != nil {
		return err
	}
	if n.el == nil {
		return fmt.Errorf("render %s: %w", n.id, ErrInactive)
	}
	return nil
}

// outerHTML renders the element followed by its tail.
func (e *element) outerHTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, e.node)
	if e.tail != nil {
		_ = html.Render(&buf, e.tail)
	}
	return buf.String()
}
