// This file re-exports tree pattern constructors for the el package.
package el

import "github.com/vango-dev/loom/pkg/tree"

func Page(args ...any) *Root {
	return tree.NewRoot(args...)
}
func Raw(tag string, args ...any) *Node {
	return tree.NewRaw(tag, args...)
}
func Loop(items []any, tmpl func(i int, item any) []*Node, opts ...Option) *Node {
	return tree.Loop(items, tmpl, opts...)
}
func LoopOf[T any](items []T, tmpl func(i int, item T) []*Node, opts ...Option) *Node {
	return tree.LoopOf(items, tmpl, opts...)
}
func LoopKey(fn func(item any) string) Option {
	return tree.LoopKey(fn)
}
func When(cond bool, tmpl func() []*Node) *Node {
	return tree.When(cond, tmpl)
}
func Block(args ...any) *Node {
	return tree.NewBlock(args...)
}
func Target(b *Node) Option {
	return tree.Target(b)
}
func WithMode(m Mode) Option {
	return tree.WithMode(m)
}
