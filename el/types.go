package el

import "github.com/vango-dev/loom/pkg/tree"

// Type aliases for the tree primitives used by the DSL.
type Node = tree.Node
type Root = tree.Root
type Attr = tree.Attr
type Event = tree.Event
type EventHandler = tree.EventHandler
type Option = tree.Option
type Mode = tree.Mode
type Converter = tree.Converter
type ConverterFunc = tree.ConverterFunc

const (
	ModeReplace = tree.ModeReplace
	ModeAppend  = tree.ModeAppend
	ModePrepend = tree.ModePrepend
)
