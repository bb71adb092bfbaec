// Package el provides the page DSL for loom.
//
// It re-exports element constructors, attribute helpers, event helpers and
// the pattern nodes (loops, conditionals, blocks) from
// github.com/vango-dev/loom/pkg/tree.
//
// Typical usage:
//
//	import (
//	    "github.com/vango-dev/loom/pkg/tree"
//	    . "github.com/vango-dev/loom/el"
//	)
//
// This keeps the DSL in a dedicated package while the tree APIs live in tree.
package el
