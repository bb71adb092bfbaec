package el

import (
	"reflect"
	"testing"

	"github.com/vango-dev/loom/pkg/tree"
)

var (
	_ tree.Attr         = Attr{}
	_ tree.Event        = Event{}
	_ tree.EventHandler = EventHandler{}
	_ tree.Option       = Option(nil)
	_ tree.Mode         = ModeAppend
)

func TestElementConstructorsMatchTree(t *testing.T) {
	args := []any{ID("root"), Class("one", "two"), Hidden(false), Text("hello")}

	got, err := Div(args...).Render()
	if err != nil {
		t.Fatal(err)
	}
	want, err := tree.Div(args...).Render()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("Div() = %v, want %v", got, want)
	}
}

func TestElementTags(t *testing.T) {
	tests := []struct {
		node *Node
		tag  string
	}{
		{Div(), "div"},
		{Span(), "span"},
		{OptionEl(), "option"},
		{StyleEl(), "style"},
		{SourceEl(), "source"},
		{IFrame(), "iframe"},
		{THead(), "thead"},
		{Raw(""), "div"},
	}
	for _, tt := range tests {
		if got := tt.node.Tag(); got != tt.tag {
			t.Errorf("Tag() = %v, want %v", got, tt.tag)
		}
	}
}

func TestAttributeHelpersMatchTree(t *testing.T) {
	tests := []struct {
		got, want Attr
	}{
		{Href("/x"), tree.Href("/x")},
		{Data("k", "v"), tree.Data("k", "v")},
		{Class("a", "b"), tree.Class("a", "b")},
		{Style(map[string]string{"color": "red"}), tree.Style(map[string]string{"color": "red"})},
		{Source("<b>x</b>"), tree.Source("<b>x</b>")},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%v, want %v", tt.got, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	content := Block(H1(Text("Default")))
	page := Block(Target(content), WithMode(ModeAppend), H1(Text("Extra")))
	root := Page(Body(content), page)
	if _, err := root.Render(); err != nil {
		t.Fatal(err)
	}
	nodes, err := root.XPath("//h1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || nodes[1].Text() != "Extra" {
		t.Errorf("//h1 = %v, want Default then Extra", nodes)
	}
}
