// Package demo holds the sample pages served and exported by the loom
// command.
package demo

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	. "github.com/vango-dev/loom/el"
)

// ClientScript is the path of the live client script.
const ClientScript = "/loom.js"

// Slots are the blocks of the page template. A page fills them by
// declaring blocks that target them.
type Slots struct {
	Nav     *Node
	Content *Node
	Footer  *Node
}

// Layout builds the shared page template. What fill returns is declared at
// the end of the body; blocks targeting a slot move into it.
func Layout(title string, fill func(s Slots) []any) *Root {
	s := Slots{
		Nav: Block(
			A(ID("nav-home"), Href("/"), "Home"),
			A(ID("nav-about"), Href("/about"), "About"),
		),
		Content: Block(P(ID("placeholder"), "Nothing here yet.")),
		Footer:  Block(Small(ID("credit"), "Built with loom")),
	}
	body := []any{
		Header(Nav(ID("nav"), s.Nav)),
		Main(ID("main"), s.Content),
		Footer(ID("footer"), s.Footer),
	}
	if fill != nil {
		body = append(body, fill(s)...)
	}
	return Page(
		Head(
			Meta(Prop("charset", "utf-8")),
			Title(ID("title"), title),
			Script(Src(ClientScript), Prop("defer", true)),
		),
		Body(body...),
	)
}

// Index is a small todo list: a looper over the items, a conditional for
// the empty state and buttons changing both.
func Index() *Root {
	var (
		items []any
		next  = 1
	)
	list := Loop(nil, func(i int, item any) []*Node {
		label := item.(string)
		return []*Node{Li(ID("item-"+label[len("Item "):]), label)}
	}, LoopKey(func(item any) string { return item.(string) }))
	empty := When(true, func() []*Node {
		return []*Node{P(ID("empty"), Class("muted"), "No items.")}
	})
	count := Span(ID("count"), "0", Tail(")"))

	update := func() {
		list.SetItems(slices.Clone(items))
		empty.SetCondition(len(items) == 0)
		count.SetText(strconv.Itoa(len(items)))
	}

	return Layout("Todo", func(s Slots) []any {
		return []any{
			Block(Target(s.Content),
				H1(ID("heading"), "Todo ", Small("(", count)),
				empty,
				Ul(ID("items"), list),
				Button(ID("add"), Type("button"), "Add", OnClick(func(Event) {
					items = append(items, fmt.Sprintf("Item %d", next))
					next++
					update()
				})),
				Button(ID("reverse"), Type("button"), "Reverse", OnClick(func(Event) {
					slices.Reverse(items)
					update()
				})),
				Button(ID("clear"), Type("button"), "Clear", OnClick(func(Event) {
					items = nil
					update()
				})),
			),
			Block(Target(s.Footer), WithMode(ModePrepend),
				Span(ID("items-note"), "Items live on the server. "),
			),
		}
	})
}

// About is a static page adding a link to the template's navigation.
func About() *Root {
	return Layout("About", func(s Slots) []any {
		return []any{
			Block(Target(s.Nav), WithMode(ModeAppend),
				A(ID("nav-source"), Href("https://github.com/vango-dev/loom"), "Source"),
			),
			Block(Target(s.Content),
				H1(ID("heading"), "About"),
				P(ID("about"), "Pages are node trees rendered once and kept in sync with the browser through change records."),
			),
		}
	})
}

// Pages returns the demo pages by export key.
func Pages() map[string]func() *Root {
	return map[string]func() *Root{
		"index": Index,
		"about": About,
	}
}

// Routes returns the demo pages by route pattern.
func Routes() map[string]func(*http.Request) (*Root, error) {
	return map[string]func(*http.Request) (*Root, error){
		"/":      func(*http.Request) (*Root, error) { return Index(), nil },
		"/about": func(*http.Request) (*Root, error) { return About(), nil },
	}
}
