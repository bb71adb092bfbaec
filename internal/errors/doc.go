// Package errors provides structured, actionable error messages for loom.
//
// Every error carries a code (e.g. "E003") mapped to a short message and a
// longer explanation, an optional node id and a suggestion on how to fix it.
//
// # Error Categories
//
//   - runtime: tree edits that were rejected (cyclic blocks, destroyed nodes)
//   - protocol: live bridge errors (bad frames, unknown node ids)
//   - config: loom.json / loom.yaml problems
//   - cli: command failures (export)
//
// # Usage
//
//	err := errors.FromTree(page.SetTarget(content))
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR E003: Cyclic block reference
//	//
//	//   node Zx81fQ2a
//	//
//	//   A block was routed into itself, directly or through other blocks.
//	//
//	//   Hint: Point the block at a target outside its own output.
package errors
