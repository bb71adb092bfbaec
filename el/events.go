// This file re-exports tree event helpers for the el package.
package el

import "github.com/vango-dev/loom/pkg/tree"

func OnEvent(name string, fn func(Event)) EventHandler {
	return tree.OnEvent(name, fn)
}
func OnClick(fn func(Event)) EventHandler {
	return tree.OnClick(fn)
}
func OnInput(fn func(Event)) EventHandler {
	return tree.OnInput(fn)
}
func OnChange(fn func(Event)) EventHandler {
	return tree.OnChange(fn)
}
func OnSubmit(fn func(Event)) EventHandler {
	return tree.OnSubmit(fn)
}
