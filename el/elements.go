// This file re-exports tree element constructors for the el package.
package el

import "github.com/vango-dev/loom/pkg/tree"

func IsVoidElement(tag string) bool {
	return tree.IsVoidElement(tag)
}
func Head(args ...any) *Node {
	return tree.Head(args...)
}
func Body(args ...any) *Node {
	return tree.Body(args...)
}
func Title(args ...any) *Node {
	return tree.Title(args...)
}
func Meta(args ...any) *Node {
	return tree.Meta(args...)
}
func Link(args ...any) *Node {
	return tree.Link(args...)
}
func Base(args ...any) *Node {
	return tree.Base(args...)
}
func Script(args ...any) *Node {
	return tree.Script(args...)
}
func StyleEl(args ...any) *Node {
	return tree.StyleEl(args...)
}
func Noscript(args ...any) *Node {
	return tree.Noscript(args...)
}
func Header(args ...any) *Node {
	return tree.Header(args...)
}
func Footer(args ...any) *Node {
	return tree.Footer(args...)
}
func Main(args ...any) *Node {
	return tree.Main(args...)
}
func Nav(args ...any) *Node {
	return tree.Nav(args...)
}
func Section(args ...any) *Node {
	return tree.Section(args...)
}
func Article(args ...any) *Node {
	return tree.Article(args...)
}
func Aside(args ...any) *Node {
	return tree.Aside(args...)
}
func Address(args ...any) *Node {
	return tree.Address(args...)
}
func H1(args ...any) *Node {
	return tree.H1(args...)
}
func H2(args ...any) *Node {
	return tree.H2(args...)
}
func H3(args ...any) *Node {
	return tree.H3(args...)
}
func H4(args ...any) *Node {
	return tree.H4(args...)
}
func H5(args ...any) *Node {
	return tree.H5(args...)
}
func H6(args ...any) *Node {
	return tree.H6(args...)
}
func Div(args ...any) *Node {
	return tree.Div(args...)
}
func P(args ...any) *Node {
	return tree.P(args...)
}
func Pre(args ...any) *Node {
	return tree.Pre(args...)
}
func Blockquote(args ...any) *Node {
	return tree.Blockquote(args...)
}
func Ul(args ...any) *Node {
	return tree.Ul(args...)
}
func Ol(args ...any) *Node {
	return tree.Ol(args...)
}
func Li(args ...any) *Node {
	return tree.Li(args...)
}
func Dl(args ...any) *Node {
	return tree.Dl(args...)
}
func Dt(args ...any) *Node {
	return tree.Dt(args...)
}
func Dd(args ...any) *Node {
	return tree.Dd(args...)
}
func Figure(args ...any) *Node {
	return tree.Figure(args...)
}
func Figcaption(args ...any) *Node {
	return tree.Figcaption(args...)
}
func Hr(args ...any) *Node {
	return tree.Hr(args...)
}
func A(args ...any) *Node {
	return tree.A(args...)
}
func Span(args ...any) *Node {
	return tree.Span(args...)
}
func Strong(args ...any) *Node {
	return tree.Strong(args...)
}
func Em(args ...any) *Node {
	return tree.Em(args...)
}
func B(args ...any) *Node {
	return tree.B(args...)
}
func I(args ...any) *Node {
	return tree.I(args...)
}
func U(args ...any) *Node {
	return tree.U(args...)
}
func Small(args ...any) *Node {
	return tree.Small(args...)
}
func Code(args ...any) *Node {
	return tree.Code(args...)
}
func Kbd(args ...any) *Node {
	return tree.Kbd(args...)
}
func Mark(args ...any) *Node {
	return tree.Mark(args...)
}
func Abbr(args ...any) *Node {
	return tree.Abbr(args...)
}
func Time(args ...any) *Node {
	return tree.Time(args...)
}
func Sub(args ...any) *Node {
	return tree.Sub(args...)
}
func Sup(args ...any) *Node {
	return tree.Sup(args...)
}
func Br(args ...any) *Node {
	return tree.Br(args...)
}
func Img(args ...any) *Node {
	return tree.Img(args...)
}
func Video(args ...any) *Node {
	return tree.Video(args...)
}
func Audio(args ...any) *Node {
	return tree.Audio(args...)
}
func SourceEl(args ...any) *Node {
	return tree.SourceEl(args...)
}
func Track(args ...any) *Node {
	return tree.Track(args...)
}
func Picture(args ...any) *Node {
	return tree.Picture(args...)
}
func IFrame(args ...any) *Node {
	return tree.IFrame(args...)
}
func Canvas(args ...any) *Node {
	return tree.Canvas(args...)
}
func Table(args ...any) *Node {
	return tree.Table(args...)
}
func Caption(args ...any) *Node {
	return tree.Caption(args...)
}
func THead(args ...any) *Node {
	return tree.THead(args...)
}
func TBody(args ...any) *Node {
	return tree.TBody(args...)
}
func TFoot(args ...any) *Node {
	return tree.TFoot(args...)
}
func Tr(args ...any) *Node {
	return tree.Tr(args...)
}
func Th(args ...any) *Node {
	return tree.Th(args...)
}
func Td(args ...any) *Node {
	return tree.Td(args...)
}
func Form(args ...any) *Node {
	return tree.Form(args...)
}
func Label(args ...any) *Node {
	return tree.Label(args...)
}
func Input(args ...any) *Node {
	return tree.Input(args...)
}
func Button(args ...any) *Node {
	return tree.Button(args...)
}
func Select(args ...any) *Node {
	return tree.Select(args...)
}
func OptionEl(args ...any) *Node {
	return tree.OptionEl(args...)
}
func Textarea(args ...any) *Node {
	return tree.Textarea(args...)
}
func Fieldset(args ...any) *Node {
	return tree.Fieldset(args...)
}
func Legend(args ...any) *Node {
	return tree.Legend(args...)
}
func Details(args ...any) *Node {
	return tree.Details(args...)
}
func Summary(args ...any) *Node {
	return tree.Summary(args...)
}
func Dialog(args ...any) *Node {
	return tree.Dialog(args...)
}
