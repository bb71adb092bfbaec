package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
)

var queryVar = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_-]*)`)

// XPath evaluates query against the backing tree below n and returns the
// matching declarative nodes in document order. Variables written $name are
// replaced by the corresponding binding. Matches without a known node, such
// as elements parsed from raw content, are skipped. Inactive nodes match
// nothing.
func (n *Node) XPath(query string, bindings map[string]any) ([]*Node, error) {
	expr, err := bindQuery(query, bindings)
	if err != nil {
		return nil, err
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidQuery, query, err)
	}
	if n.el == nil {
		return nil, nil
	}
	r := n.Root()
	top := n.el.node
	if r != nil && r.Node == n && r.doc != nil {
		top = r.doc.node
	}
	matches := htmlquery.QuerySelectorAll(top, compiled)
	out := make([]*Node, 0, len(matches))
	for _, m := range matches {
		id := htmlquery.SelectAttr(m, "id")
		node := n.resolve(r, id)
		if node == nil {
			n.logger().Debug("query match has no node", "query", expr, "id", id)
			continue
		}
		out = append(out, node)
	}
	return out, nil
}

// First returns the first node matching query, or nil.
func (n *Node) First(query string, bindings map[string]any) (*Node, error) {
	nodes, err := n.XPath(query, bindings)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Last returns the last node matching query, or nil.
func (n *Node) Last(query string, bindings map[string]any) (*Node, error) {
	nodes, err := n.XPath(query, bindings)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[len(nodes)-1], nil
}

func (n *Node) resolve(r *Root, id string) *Node {
	if id == "" {
		return nil
	}
	if r != nil {
		node, _ := r.Lookup(id)
		return node
	}
	return n.find(id)
}

// find searches the subtree of a node that has no Root.
func (n *Node) find(id string) *Node {
	if n.id == id && n.el != nil && !n.destroyed {
		return n
	}
	for _, c := range n.children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// bindQuery substitutes $name variables with XPath literals.
func bindQuery(query string, bindings map[string]any) (string, error) {
	var missing string
	out := queryVar.ReplaceAllStringFunc(query, func(m string) string {
		name := m[1:]
		v, ok := bindings[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return xpathValue(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: unbound variable $%s", ErrInvalidQuery, missing)
	}
	return out, nil
}

func xpathValue(v any) string {
	switch x := v.(type) {
	case string:
		return xpathLiteral(x)
	case bool:
		if x {
			return "true()"
		}
		return "false()"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *Node:
		return xpathLiteral(x.id)
	}
	return xpathLiteral(fmt.Sprint(v))
}

// xpathLiteral quotes s. XPath 1.0 has no escapes, so strings holding both
// quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, '"', `)
		}
		b.WriteString(`"` + p + `"`)
	}
	b.WriteString(")")
	return b.String()
}
