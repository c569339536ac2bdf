// Package apperr classifies failures of the shop core so transports can map them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of an error
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindForbidden
	KindNoValidItems
	KindIllegalTransition
	KindConflict
	KindPartialSuccess
	KindUnauthenticated
	KindStore
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindNotFound:          "not_found",
	KindInvalidArgument:   "invalid_argument",
	KindForbidden:         "forbidden",
	KindNoValidItems:      "no_valid_items",
	KindIllegalTransition: "illegal_transition",
	KindConflict:          "conflict",
	KindPartialSuccess:    "partial_success",
	KindUnauthenticated:   "unauthenticated",
	KindStore:             "store_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error carries a Kind, the failing operation and an optional cause
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNoValidItems      = &Error{Kind: KindNoValidItems}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrPartialSuccess    = &Error{Kind: KindPartialSuccess}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrStore             = &Error{Kind: KindStore}
)

// E builds an *Error
func E(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around cause
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// NotFound reports a missing document
func NotFound(op, what string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: what + " not found"}
}

// InvalidArgument reports a caller error
func InvalidArgument(op, format string, args ...any) *Error {
	return E(KindInvalidArgument, op, format, args...)
}

// KindOf returns the kind of the outermost *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
