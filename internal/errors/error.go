package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/loom/pkg/tree"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// LoomError is a structured error with a code, the node involved and a
// suggestion.
type LoomError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// NodeID is the node the error is about, if any.
	NodeID string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LoomError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LoomError) Unwrap() error {
	return e.Wrapped
}

// WithNode records the node the error is about.
func (e *LoomError) WithNode(id string) *LoomError {
	e.NodeID = id
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LoomError) WithSuggestion(s string) *LoomError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *LoomError) WithDetail(d string) *LoomError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *LoomError) Wrap(err error) *LoomError {
	e.Wrapped = err
	return e
}

// New creates a LoomError from a registered error code.
func New(code string) *LoomError {
	template, ok := registry[code]
	if !ok {
		return &LoomError{Code: code, Message: "Unknown error"}
	}
	return &LoomError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new LoomError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *LoomError {
	return &LoomError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a LoomError.
func FromError(err error, code string) *LoomError {
	if err == nil {
		return nil
	}
	var le *LoomError
	if stderrors.As(err, &le) {
		return le
	}
	return New(code).Wrap(err)
}

// treeCodes maps tree sentinel errors to codes, checked in order.
var treeCodes = []struct {
	err  error
	code string
}{
	{tree.ErrChildNotFound, "E001"},
	{tree.ErrUnsupportedModeTransition, "E002"},
	{tree.ErrCyclicBlock, "E003"},
	{tree.ErrInvalidAttribute, "E005"},
	{tree.ErrDestroyed, "E006"},
	{tree.ErrBlockDetached, "E007"},
	{tree.ErrInvalidInsert, "E008"},
	{tree.ErrNotBlock, "E009"},
	{tree.ErrInvalidQuery, "E010"},
	{tree.ErrInactive, "E011"},
	{tree.ErrDuplicateID, "E012"},
}

// FromTree converts an error returned by the tree package into a LoomError.
// Raw content parse failures keep the id of the node being parsed. Errors
// that are not tree errors become E100.
func FromTree(err error) *LoomError {
	if err == nil {
		return nil
	}
	var le *LoomError
	if stderrors.As(err, &le) {
		return le
	}
	var pe *tree.ParseError
	if stderrors.As(err, &pe) {
		return New("E004").Wrap(err).WithNode(pe.NodeID)
	}
	for _, tc := range treeCodes {
		if stderrors.Is(err, tc.err) {
			return New(tc.code).Wrap(err)
		}
	}
	return New("E100").Wrap(err)
}
