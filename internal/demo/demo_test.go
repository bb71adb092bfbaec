package demo

import (
	"strings"
	"testing"

	"github.com/vango-dev/loom/pkg/tree"
)

func render(t *testing.T, r *tree.Root) string {
	t.Helper()
	out, err := r.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

func click(t *testing.T, r *tree.Root, id string) {
	t.Helper()
	n, ok := r.Lookup(id)
	if !ok {
		t.Fatalf("Lookup(%q) found nothing", id)
	}
	if !n.Trigger("click", nil) {
		t.Fatalf("%s has no click handler", id)
	}
}

func itemTexts(t *testing.T, r *tree.Root) []string {
	t.Helper()
	ul, _ := r.Lookup("items")
	var out []string
	for _, c := range ul.Children() {
		if c.Kind() == tree.KindElement {
			out = append(out, c.Text())
		}
	}
	return out
}

func TestIndexLayout(t *testing.T) {
	r := Index()
	out := render(t, r)

	for _, want := range []string{
		`(<span id="count">0</span>)</small>`,
		`<p id="empty" class="muted">No items.</p>`,
		`<span id="items-note">Items live on the server. </span><small id="credit">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page misses %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "placeholder") {
		t.Errorf("content block default survived replace:\n%s", out)
	}
	main := strings.Index(out, `<main id="main">`)
	heading := strings.Index(out, `id="heading"`)
	if main < 0 || heading < main {
		t.Errorf("heading not inside main:\n%s", out)
	}
}

func TestIndexInteraction(t *testing.T) {
	r := Index()
	render(t, r)

	var changes []tree.Change
	r.OnModified(func(c tree.Change) { changes = append(changes, c) })

	click(t, r, "add")
	click(t, r, "add")
	if got := itemTexts(t, r); strings.Join(got, ",") != "Item 1,Item 2" {
		t.Errorf("items = %v, want [Item 1 Item 2]", got)
	}
	if _, ok := r.Lookup("empty"); ok {
		t.Error("empty message still present with items")
	}
	count, _ := r.Lookup("count")
	if count.Text() != "2" {
		t.Errorf("count = %q, want 2", count.Text())
	}

	changes = nil
	click(t, r, "reverse")
	if got := itemTexts(t, r); strings.Join(got, ",") != "Item 2,Item 1" {
		t.Errorf("items = %v, want [Item 2 Item 1]", got)
	}
	for _, c := range changes {
		if c.Type != tree.ChangeMoved {
			t.Errorf("reverse emitted %v, want only moves", c)
		}
	}
	if len(changes) != 1 {
		t.Errorf("reverse emitted %d records, want 1", len(changes))
	}

	click(t, r, "clear")
	if got := itemTexts(t, r); len(got) != 0 {
		t.Errorf("items = %v, want none", got)
	}
	if _, ok := r.Lookup("empty"); !ok {
		t.Error("empty message missing after clear")
	}
}

func TestAbout(t *testing.T) {
	out := render(t, About())
	home := strings.Index(out, `id="nav-home"`)
	about := strings.Index(out, `id="nav-about"`)
	source := strings.Index(out, `id="nav-source"`)
	if home < 0 || about < home || source < about {
		t.Errorf("nav order wrong, want home, about, source:\n%s", out)
	}
}

func TestPagesAndRoutes(t *testing.T) {
	if got := len(Pages()); got != 2 {
		t.Errorf("len(Pages()) = %d, want 2", got)
	}
	for pattern, fn := range Routes() {
		r, err := fn(nil)
		if err != nil || r == nil {
			t.Errorf("route %s = %v, %v", pattern, r, err)
		}
	}
}
