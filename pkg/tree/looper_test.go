package tree

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// listPage builds <ul id="list"> holding Li1, a looper over items and Li6.
func listPage(items ...any) (*Root, *Node, *Node) {
	loop := Loop(items, liTemplate)
	ul := Ul(ID("list"), Li(ID("li1"), Text("1")), loop, Li(ID("li6"), Text("6")))
	return NewRoot(Body(ul)), ul, loop
}

func TestLooperRender(t *testing.T) {
	root, ul, _ := listPage(2, 3)
	mustRender(t, root.Node)
	want := `<ul id="list"><li id="li1">1</li><li id="li2">2</li><li id="li3">3</li><li id="li6">6</li></ul>`
	if got := mustRender(t, ul); got != want {
		t.Errorf("Render() = %v, want %v", got, want)
	}
}

func TestLooperAppendOneAdded(t *testing.T) {
	root, ul, loop := listPage(2, 3)
	mustRender(t, root.Node)
	rec := record(root)

	if err := loop.SetItems([]any{2, 3, 4}); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("changes = %v, want exactly 1 added", rec.changes)
	}
	c := rec.changes[0]
	if c.Type != ChangeAdded || c.ID != "list" || c.Name != ChildrenName {
		t.Errorf("change = %v, want added list.children", c)
	}
	if c.Index == nil || *c.Index != 3 {
		t.Errorf("Index = %v, want 3", c.Index)
	}
	if c.Before != "li6" {
		t.Errorf("Before = %v, want li6", c.Before)
	}
	if c.Value != `<li id="li4">4</li>` {
		t.Errorf("Value = %v", c.Value)
	}
	want := `<ul id="list"><li id="li1">1</li><li id="li2">2</li><li id="li3">3</li><li id="li4">4</li><li id="li6">6</li></ul>`
	if got := mustRender(t, ul); got != want {
		t.Errorf("Render() = %v, want %v", got, want)
	}
	li6, _ := root.Lookup("li6")
	if idx, err := ChildIndex(ul, li6); err != nil || idx != 4 {
		t.Errorf("ChildIndex(li6) = %d, %v, want 4", idx, err)
	}
}

func TestLooperReorderMovesOnce(t *testing.T) {
	root, ul, loop := listPage(2, 3, 4)
	mustRender(t, root.Node)
	rec := record(root)

	if err := loop.SetItems([]any{4, 2, 3}); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("changes = %v, want exactly 1 moved", rec.changes)
	}
	c := rec.changes[0]
	if c.Type != ChangeMoved || c.Value != "li4" || *c.Index != 1 || c.Before != "li2" {
		t.Errorf("change = %v before %q, want moved li4 to 1 before li2", c, c.Before)
	}
	want := `<ul id="list"><li id="li1">1</li><li id="li4">4</li><li id="li2">2</li><li id="li3">3</li><li id="li6">6</li></ul>`
	if got := mustRender(t, ul); got != want {
		t.Errorf("Render() = %v, want %v", got, want)
	}

	// Same order again: nothing moves.
	rec.reset()
	if err := loop.SetItems([]any{4, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 0 {
		t.Errorf("changes = %v, want none", rec.changes)
	}
}

func TestLooperRemoveOne(t *testing.T) {
	root, _, loop := listPage(2, 3, 4)
	mustRender(t, root.Node)
	rec := record(root)

	if err := loop.SetItems([]any{2, 4}); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 1 || rec.changes[0].Type != ChangeRemoved || rec.changes[0].Value != "li3" {
		t.Errorf("changes = %v, want 1 removed li3", rec.changes)
	}
	if _, ok := root.Lookup("li3"); ok {
		t.Error("removed item should leave the cache")
	}
}

func TestLooperReusesNodes(t *testing.T) {
	root, _, loop := listPage("a", "b")
	mustRender(t, root.Node)
	before, _ := root.Lookup("lib")
	if err := loop.SetItems([]any{"b", "c", "a"}); err != nil {
		t.Fatal(err)
	}
	after, _ := root.Lookup("lib")
	if before != after {
		t.Error("item b should keep its node")
	}
	got := texts(mustQuery(t, root.Node, "//ul/li"))
	want := []string{"1", "b", "c", "a", "6"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestLooperDuplicateKeys(t *testing.T) {
	n := 0
	loop := Loop([]any{"x", "x"}, func(i int, item any) []*Node {
		n++
		return []*Node{Li(Text(fmt.Sprint(item)))}
	})
	root := NewRoot(Body(Ul(loop)))
	mustRender(t, root.Node)
	if err := loop.SetItems([]any{"x", "x", "x"}); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("template ran %d times, want 3", n)
	}
	if got := len(mustQuery(t, root.Node, "//li")); got != 3 {
		t.Errorf("len(//li) = %d, want 3", got)
	}
}

func TestLooperCustomKey(t *testing.T) {
	type user struct {
		ID   int
		Name string
	}
	loop := LoopOf([]user{{1, "ann"}, {2, "bob"}}, func(i int, u user) []*Node {
		return []*Node{Li(ID(fmt.Sprintf("u%d", u.ID)), Text(u.Name))}
	}, LoopKey(func(item any) string { return fmt.Sprint(item.(user).ID) }))
	root := NewRoot(Body(Ul(loop)))
	mustRender(t, root.Node)
	rec := record(root)

	// Same key, new value: the generated node is reused as is.
	if err := loop.SetItems([]any{user{2, "bobby"}, user{1, "ann"}}); err != nil {
		t.Fatal(err)
	}
	if rec.count(ChangeAdded) != 0 || rec.count(ChangeMoved) != 1 {
		t.Errorf("changes = %v, want a single move", rec.changes)
	}
}

func TestLooperNested(t *testing.T) {
	inner := func(i int, item any) []*Node {
		return []*Node{Span(Text(fmt.Sprint(item)))}
	}
	outer := Loop([]any{"a", "b"}, func(i int, item any) []*Node {
		return []*Node{
			Li(ID(fmt.Sprint("row", item)), Loop([]any{1, 2}, inner)),
		}
	})
	root := NewRoot(Body(Ul(outer)))
	mustRender(t, root.Node)
	if got := len(mustQuery(t, root.Node, "//li/span")); got != 4 {
		t.Errorf("len(//li/span) = %d, want 4", got)
	}
}

func TestLooperNestedPatternRegion(t *testing.T) {
	cond := When(true, func() []*Node { return []*Node{Li(ID("c"))} })
	loop := Loop([]any{1}, func(int, any) []*Node {
		return []*Node{Li(ID("a")), cond}
	})
	ul := Ul(ID("list"), loop, Li(ID("z")))
	root := NewRoot(Body(ul))
	mustRender(t, root.Node)
	if got := mustRender(t, ul); got != `<ul id="list"><li id="a"></li><li id="c"></li><li id="z"></li></ul>` {
		t.Errorf("Render() = %v", got)
	}
	z, _ := root.Lookup("z")
	if idx, _ := ChildIndex(ul, z); idx != 2 {
		t.Errorf("ChildIndex(z) = %d, want 2", idx)
	}
}

func TestSetItemsOnWrongKind(t *testing.T) {
	if err := Div().SetItems(nil); !errors.Is(err, ErrInvalidInsert) {
		t.Errorf("SetItems on div = %v, want ErrInvalidInsert", err)
	}
	if err := Loop(nil, liTemplate).AppendChild(Li()); !errors.Is(err, ErrInvalidInsert) {
		t.Errorf("AppendChild on looper = %v, want ErrInvalidInsert", err)
	}
}

func TestConditional(t *testing.T) {
	cond := When(false, func() []*Node { return []*Node{P(ID("msg"), Text("hi"))} })
	body := Body(ID("body"), Div(ID("first")), cond, Div(ID("last")))
	root := NewRoot(body)
	mustRender(t, root.Node)
	rec := record(root)

	if err := cond.SetCondition(true); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 1 || rec.changes[0].Type != ChangeAdded || *rec.changes[0].Index != 1 || rec.changes[0].Before != "last" {
		t.Errorf("changes = %v, want added at 1 before last", rec.changes)
	}
	if _, ok := root.Lookup("msg"); !ok {
		t.Error("Lookup(msg) should succeed")
	}

	rec.reset()
	if err := cond.SetCondition(false); err != nil {
		t.Fatal(err)
	}
	if len(rec.changes) != 1 || rec.changes[0].Type != ChangeRemoved || rec.changes[0].Value != "msg" {
		t.Errorf("changes = %v, want removed msg", rec.changes)
	}
	if got := mustRender(t, body); got != `<body id="body"><div id="first"></div><div id="last"></div></body>` {
		t.Errorf("Render() = %v", got)
	}
	if cond.Condition() {
		t.Error("Condition() = true, want false")
	}
}
