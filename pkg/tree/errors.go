package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrChildNotFound is returned when a node is not a child of the given parent.
	ErrChildNotFound = errors.New("child not found")

	// ErrUnsupportedModeTransition is returned when a bound block leaves replace mode.
	ErrUnsupportedModeTransition = errors.New("block mode cannot change from replace")

	// ErrCyclicBlock is returned when a block would end up inside its own output.
	ErrCyclicBlock = errors.New("cyclic block reference")

	// ErrNotBlock is returned when a block operation targets another kind of node.
	ErrNotBlock = errors.New("node is not a block")

	// ErrInvalidAttribute is returned when a value does not fit the tag schema.
	ErrInvalidAttribute = errors.New("invalid attribute")

	// ErrDestroyed is returned when mutating a destroyed node.
	ErrDestroyed = errors.New("node destroyed")

	// ErrBlockDetached is returned when a block or its target has no place in the tree.
	ErrBlockDetached = errors.New("block detached")

	// ErrInvalidInsert is returned for structural edits that would corrupt the tree.
	ErrInvalidInsert = errors.New("invalid insert")

	// ErrDuplicateID is returned when an id is already held by another live
	// node of the same Root.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidQuery is returned for malformed queries or unbound variables.
	ErrInvalidQuery = errors.New("invalid query")
)

// ParseError reports raw content that could not be turned into elements.
type ParseError struct {
	NodeID string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse raw content of %s: %v", e.NodeID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
