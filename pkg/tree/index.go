package tree

import "fmt"

// ChildIndex returns the position of child among the real children of
// parent, counting only non-pattern siblings before it. It is the one place
// positions come from: backing insertion, the index of added and moved
// changes and, through nextReal, their before reference.
func ChildIndex(parent, child *Node) (int, error) {
	i := 0
	for _, c := range parent.children {
		if c == child {
			return i, nil
		}
		if c.isReal() {
			i++
		}
	}
	return -1, fmt.Errorf("%w: %s in %s", ErrChildNotFound, child.id, parent.id)
}

// nextReal returns the first real sibling after child, or nil.
func nextReal(parent, child *Node) *Node {
	i := indexOf(parent.children, child)
	if i < 0 {
		return nil
	}
	for _, c := range parent.children[i+1:] {
		if c.isReal() {
			return c
		}
	}
	return nil
}
