package tree

import (
	"errors"
	"testing"
)

func TestAttributeSerialization(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"class list", Div(ID("d"), Class("a", "b")), `<div id="d" class="a b"></div>`},
		{"class string", Div(ID("d"), Prop("class", "x y")), `<div id="d" class="x y"></div>`},
		{"style map", Div(ID("d"), Style(map[string]string{"color": "blue", "background": "#fff"})), `<div id="d" style="background:#fff;color:blue"></div>`},
		{"style string", Div(ID("d"), StyleAttr("color:red")), `<div id="d" style="color:red"></div>`},
		{"flag true", Input(ID("i"), Checked(true)), `<input id="i" checked="checked"/>`},
		{"flag false", Input(ID("i"), Checked(false)), `<input id="i"/>`},
		{"enumerated true", Div(ID("d"), Draggable(true)), `<div id="d" draggable="true"></div>`},
		{"enumerated false", Div(ID("d"), Draggable(false)), `<div id="d" draggable="false"></div>`},
		{"number", Td(ID("t"), Prop("colspan", 2)), `<td id="t" colspan="2"></td>`},
		{"sorted", A(ID("a"), Href("/x"), Prop("rel", "nofollow"), Prop("target", "_blank")), `<a id="a" href="/x" rel="nofollow" target="_blank"></a>`},
		{"extra attrs", Div(ID("d"), Attrs(map[string]string{"data-b": "2", "data-a": "1"})), `<div id="d" data-a="1" data-b="2"></div>`},
		{"text and tail", Div(ID("d"), Text("a"), Span(ID("s"), Text("b"), Tail("c"))), `<div id="d">a<span id="s">b</span>c</div>`},
		{"escaping", P(ID("p"), Text("<b> & \"q\"")), `<p id="p">&lt;b&gt; &amp; &#34;q&#34;</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRender(t, tt.node); got != tt.want {
				t.Errorf("Render() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchemaValidation(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attr  string
		value any
		ok    bool
	}{
		{"flag bool", "input", "checked", true, true},
		{"flag string", "input", "checked", "yes", false},
		{"enum ok", "button", "type", "submit", true},
		{"enum bad", "button", "type", "bogus", false},
		{"enumerated bool string", "div", "draggable", "true", true},
		{"enumerated bool bad", "div", "spellcheck", "maybe", false},
		{"unknown attr", "div", "data-x", "anything", true},
		{"unknown tag", "my-widget", "checked", "yes", true},
		{"nil removes", "input", "checked", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAttr(tt.tag, tt.attr, tt.value)
			if tt.ok && err != nil {
				t.Errorf("validateAttr() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidAttribute) {
				t.Errorf("validateAttr() error = %v, want ErrInvalidAttribute", err)
			}
		})
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	n := Button()
	if err := n.Set("type", "bogus"); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("Set(type, bogus) = %v, want ErrInvalidAttribute", err)
	}
	if err := n.Set("id", "x"); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("Set(id) = %v, want ErrInvalidAttribute", err)
	}
	if err := n.Set("text", 12.5+3i); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("Set(text, complex) = %v, want ErrInvalidAttribute", err)
	}
}

func TestExtraAttrsReservedNames(t *testing.T) {
	for _, name := range []string{"id", "class", "style"} {
		t.Run(name, func(t *testing.T) {
			root := NewRoot(Body(Div(Attrs(map[string]string{name: "evil"}))))
			if _, err := root.Render(); !errors.Is(err, ErrInvalidAttribute) {
				t.Errorf("Render() error = %v, want ErrInvalidAttribute", err)
			}

			d := Div(ID("d"))
			live := NewRoot(Body(d))
			mustRender(t, live.Node)
			if err := d.Set("attrs", map[string]any{"data-x": 1, name: "evil"}); !errors.Is(err, ErrInvalidAttribute) {
				t.Errorf("Set(attrs) error = %v, want ErrInvalidAttribute", err)
			}
			if got := mustRender(t, d); got != `<div id="d"></div>` {
				t.Errorf("Render() = %v", got)
			}
			if got := mustQuery(t, live.Node, "//div"); len(got) != 1 || got[0] != d {
				t.Errorf("XPath(//div) = %v, want [d]", got)
			}
		})
	}
}

func TestInvalidConstructionAttrFailsPrepare(t *testing.T) {
	root := NewRoot(Body(Button(Type("bogus"))))
	if _, err := root.Render(); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("Render() error = %v, want ErrInvalidAttribute", err)
	}
}

func TestUpdateRecords(t *testing.T) {
	p := P(ID("p"), Text("one"))
	root := NewRoot(Body(p))
	rec := record(root)

	// Nothing is reported before the first render.
	if err := p.SetText("zero"); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 0 {
		t.Fatalf("changes before render = %v, want none", rec.changes)
	}
	mustRender(t, root.Node)

	if err := p.SetText("two"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetText("two"); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("changes = %v, want exactly 1 update", rec.changes)
	}
	c := rec.changes[0]
	if c.Type != ChangeUpdate || c.ID != "p" || c.Name != "text" || c.Value != "two" || c.OldValue != "zero" {
		t.Errorf("change = %+v", c)
	}
	if got := mustRender(t, p); got != `<p id="p">two</p>` {
		t.Errorf("Render() = %v", got)
	}
}

func TestSetterRouting(t *testing.T) {
	d := Div(ID("d"), Class("a"))
	root := NewRoot(Body(d))
	mustRender(t, root.Node)

	steps := []struct {
		name  string
		value any
		want  string
	}{
		{"class", []string{"b", "c"}, `<div id="d" class="b c"></div>`},
		{"style", map[string]string{"top": "0"}, `<div id="d" class="b c" style="top:0"></div>`},
		{"hidden", true, `<div id="d" class="b c" style="top:0" hidden="hidden"></div>`},
		{"hidden", false, `<div id="d" class="b c" style="top:0"></div>`},
		{"class", nil, `<div id="d" style="top:0"></div>`},
		{"tag", "section", `<section id="d" style="top:0"></section>`},
		{"text", "hi", `<section id="d" style="top:0">hi</section>`},
	}
	for _, s := range steps {
		if err := d.Set(s.name, s.value); err != nil {
			t.Fatalf("Set(%s, %v) error = %v", s.name, s.value, err)
		}
		if got := mustRender(t, d); got != s.want {
			t.Errorf("after Set(%s, %v): Render() = %v, want %v", s.name, s.value, got, s.want)
		}
	}
}

func TestObserve(t *testing.T) {
	n := Div()
	var calls []any
	cancel := n.Observe("title", func(v, old any) {
		calls = append(calls, v)
	})
	_ = n.Set("title", "a")
	_ = n.Set("title", "a")
	_ = n.Set("title", "b")
	cancel()
	_ = n.Set("title", "c")
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("observer calls = %v, want [a b]", calls)
	}
}

func TestStateNeverReachesMarkup(t *testing.T) {
	n := Div(ID("d"), State("open", false))
	root := NewRoot(Body(n))
	mustRender(t, root.Node)
	rec := record(root)

	fired := 0
	n.Observe("open", func(v, old any) { fired++ })
	n.SetState("open", true)
	n.SetState("open", true)

	if fired != 1 {
		t.Errorf("observer fired %d times, want 1", fired)
	}
	if len(rec.changes) != 0 {
		t.Errorf("changes = %v, want none", rec.changes)
	}
	if v, _ := n.GetState("open"); v != true {
		t.Errorf("GetState(open) = %v, want true", v)
	}
	if got := mustRender(t, n); got != `<div id="d"></div>` {
		t.Errorf("Render() = %v", got)
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{"a", "a", true},
		{"a", "b", false},
		{nil, "", true},
		{nil, false, true},
		{true, "true", false},
		{[]string{"a"}, []string{"a"}, true},
		{[]string{"a"}, []string{"b"}, false},
		{map[string]string{"a": "1"}, map[string]string{"a": "1"}, true},
	}
	for _, tt := range tests {
		if got := valuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
