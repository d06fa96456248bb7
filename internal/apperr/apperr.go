// Package apperr defines the error taxonomy shared across services:
// rate-limited, unavailable, conflict and not-found conditions, each mapped
// to an HTTP status by the API layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on it.
type Kind int

const (
	// KindUnknown is the zero value; treated as an internal error.
	KindUnknown Kind = iota
	// KindRateLimited means the caller must back off; the operation was not applied.
	KindRateLimited
	// KindUnavailable means a transient store failure; the whole operation is safe to retry.
	KindUnavailable
	// KindConflict means the request lost a race or repeats a one-shot action.
	KindConflict
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindInvalid means the request itself is malformed.
	KindInvalid
)

// Error carries a kind alongside a message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Wrapf attaches a kind and formatted message to an underlying error.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool { return KindOf(err) == KindRateLimited }

// IsConflict reports whether err is a conflict rejection.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnavailable reports whether err is a transient store failure.
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }
