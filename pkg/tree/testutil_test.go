package tree

import (
	"fmt"
	"testing"
)

// recorder collects the changes a Root reports.
type recorder struct {
	changes []Change
}

func record(r *Root) *recorder {
	rec := &recorder{}
	r.OnModified(func(c Change) {
		rec.changes = append(rec.changes, c)
	})
	return rec
}

func (r *recorder) count(t ChangeType) int {
	n := 0
	for _, c := range r.changes {
		if c.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.changes = nil
}

func mustRender(t *testing.T, n *Node) string {
	t.Helper()
	out, err := n.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

func mustQuery(t *testing.T, n *Node, query string) []*Node {
	t.Helper()
	nodes, err := n.XPath(query, nil)
	if err != nil {
		t.Fatalf("XPath(%q) error = %v", query, err)
	}
	return nodes
}

func texts(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text()
	}
	return out
}

// liTemplate renders each item as <li id="li{item}">{item}</li>.
func liTemplate(i int, item any) []*Node {
	return []*Node{Li(ID(fmt.Sprintf("li%v", item)), Text(fmt.Sprint(item)))}
}
