// Package apperror defines the error kinds shared by every domain package.
// Domain sentinels are built with New and matched with errors.Is against a Kind.
package apperror

import "errors"

// Kind classifies an error for callers such as the HTTP layer.
type Kind string

const (
	Validation          Kind = "validation"
	NotFound            Kind = "not_found"
	Conflict            Kind = "conflict"
	InsufficientBalance Kind = "insufficient_balance"
	Eligibility         Kind = "eligibility"
	Internal            Kind = "internal"
)

func (k Kind) Error() string {
	return string(k)
}

// Error is a domain error tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
}

// New creates a new domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is this error itself or its Kind.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return e == target
}

// KindOf returns the kind of err, or Internal when err carries none.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range []Kind{Validation, NotFound, Conflict, InsufficientBalance, Eligibility} {
		if errors.Is(err, k) {
			return k
		}
	}
	return Internal
}
