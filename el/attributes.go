// This file re-exports tree attribute helpers for the el package.
package el

import "github.com/vango-dev/loom/pkg/tree"

func Prop(key string, value any) Attr {
	return tree.Prop(key, value)
}
func State(key string, value any) Attr {
	return tree.State(key, value)
}
func ID(id string) Attr {
	return tree.ID(id)
}
func Text(s string) Attr {
	return tree.Text(s)
}
func Tail(s string) Attr {
	return tree.Tail(s)
}
func Class(classes ...string) Attr {
	return tree.Class(classes...)
}
func Style(props map[string]string) Attr {
	return tree.Style(props)
}
func StyleAttr(style string) Attr {
	return tree.StyleAttr(style)
}
func Attrs(m map[string]string) Attr {
	return tree.Attrs(m)
}
func Data(key, value string) Attr {
	return tree.Data(key, value)
}
func Href(url string) Attr {
	return tree.Href(url)
}
func Src(url string) Attr {
	return tree.Src(url)
}
func Alt(s string) Attr {
	return tree.Alt(s)
}
func Type(t string) Attr {
	return tree.Type(t)
}
func Name(s string) Attr {
	return tree.Name(s)
}
func Value(s string) Attr {
	return tree.Value(s)
}
func Role(role string) Attr {
	return tree.Role(role)
}
func Hidden(b bool) Attr {
	return tree.Hidden(b)
}
func Disabled(b bool) Attr {
	return tree.Disabled(b)
}
func Checked(b bool) Attr {
	return tree.Checked(b)
}
func Draggable(b bool) Attr {
	return tree.Draggable(b)
}
func Source(src string) Attr {
	return tree.Source(src)
}
