package model

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary
type Kind int

const (
	// KindUnhandled is anything the boundary has no specific mapping for
	KindUnhandled Kind = iota
	KindInvalidRequest
	KindNotFound
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "INVALID_REQUEST"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidState:
		return "INVALID_STATE"
	default:
		return "INTERNAL"
	}
}

// Error is an application error carrying its kind
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// InvalidRequest returns an error for malformed or missing input
func InvalidRequest(message string) *Error {
	return NewError(KindInvalidRequest, message, nil)
}

// NotFound returns an error for an absent resource
func NotFound(message string) *Error {
	return NewError(KindNotFound, message, nil)
}

// InvalidState returns an error for an internal inconsistency
func InvalidState(message string) *Error {
	return NewError(KindInvalidState, message, nil)
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

// IsNotFound reports whether err is a NotFound error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
