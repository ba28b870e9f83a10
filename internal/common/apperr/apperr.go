// Package apperr classifies engine errors so transports can decide who sees them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy shared by every service
type Kind string

const (
	// KindValidation is a malformed or oversized payload
	KindValidation Kind = "validation"

	// KindNotFound is an unknown room, participant or record
	KindNotFound Kind = "not_found"

	// KindConflict is a request that collides with existing state, such as joining a second active room
	KindConflict Kind = "conflict"

	// KindState is a request that is not valid for the current state machine position
	KindState Kind = "state"

	// KindTransport is a lost or failing connection
	KindTransport Kind = "transport"

	// KindInternal is anything unclassified
	KindInternal Kind = "internal"
)

// Error carries a Kind, a short machine-readable Reason and an optional cause
type Error struct {
	Kind   Kind
	Reason string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and reason, so sentinels survive Wrap
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason && e.Msg == t.Msg
}

// New builds a sentinel error
func New(kind Kind, reason, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, Msg: msg}
}

// Wrap returns a copy of the sentinel carrying cause
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Reason: sentinel.Reason, Msg: sentinel.Msg, Err: cause}
}

func Validation(reason, msg string) *Error { return New(KindValidation, reason, msg) }
func NotFound(reason, msg string) *Error   { return New(KindNotFound, reason, msg) }
func Conflict(reason, msg string) *Error   { return New(KindConflict, reason, msg) }
func State(reason, msg string) *Error      { return New(KindState, reason, msg) }
func Transport(reason, msg string) *Error  { return New(KindTransport, reason, msg) }

// KindOf returns the kind of the first *Error in the chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf returns the reason of the first *Error in the chain
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
