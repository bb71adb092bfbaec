// Package tree is the declarative node tree behind loom pages.
//
// A page is built from Nodes: ordinary elements, pattern nodes that generate
// children (Loop, When), Blocks that redirect their children into another
// Block, and Raw nodes holding parsed HTML. Nothing is materialized until the
// Root is prepared; preparation expands patterns, binds blocks and creates one
// backing element per real node.
//
// After the first render every mutation of an active node is mirrored into
// the backing tree and reported to the Root's listeners as a Change. The
// stream of changes is minimal: no-op writes produce nothing, and structural
// records carry positions computed by ChildIndex, which ignores pattern nodes.
//
// A tree is not safe for concurrent use. Hosts serialize access, usually by
// running every mutation on a single owner goroutine (see pkg/bridge).
//
// Typical usage:
//
//	root := tree.NewRoot(
//	    tree.Body(
//	        tree.Ul(tree.Loop(items, func(i int, item any) []*tree.Node {
//	            return []*tree.Node{tree.Li(tree.Text(fmt.Sprint(item)))}
//	        })),
//	    ),
//	)
//	html, err := root.Render()
package tree
