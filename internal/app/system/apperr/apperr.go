// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by all services.
//
// Every command failure is an *Error carrying a Kind and a caller-safe
// message. The gateway maps kinds to HTTP statuses at the edge; the
// services themselves never know about HTTP.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindNotFound means the referenced entity does not exist.
	KindNotFound Kind = "not_found"
	// KindAccessDenied means the actor has no membership granting access.
	KindAccessDenied Kind = "access_denied"
	// KindForbidden means the actor is a member but the operation requires
	// more capability, or an owner-protection rule blocked it.
	KindForbidden Kind = "forbidden"
	// KindConflict means a uniqueness constraint was violated.
	KindConflict Kind = "conflict"
	// KindValidation means the input payload was malformed.
	KindValidation Kind = "validation"
	// KindAuth means bad credentials or an invalid/expired token.
	KindAuth Kind = "auth"
	// KindInference means the assistant model collaborator failed. Chat
	// recovers from this locally; it never reaches a command caller.
	KindInference Kind = "inference"
	// KindUnavailable means a backing dependency could not be reached.
	KindUnavailable Kind = "unavailable"
)

// Error is a classified, caller-safe failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New returns an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error with the given kind and message, preserving
// cause for logging and errors.Is/As chains.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func NotFound(format string, args ...any) *Error     { return New(KindNotFound, format, args...) }
func AccessDenied(format string, args ...any) *Error { return New(KindAccessDenied, format, args...) }
func Forbidden(format string, args ...any) *Error    { return New(KindForbidden, format, args...) }
func Conflict(format string, args ...any) *Error     { return New(KindConflict, format, args...) }
func Validation(format string, args ...any) *Error   { return New(KindValidation, format, args...) }
func Auth(format string, args ...any) *Error         { return New(KindAuth, format, args...) }
func Inference(format string, args ...any) *Error    { return New(KindInference, format, args...) }
func Unavailable(format string, args ...any) *Error  { return New(KindUnavailable, format, args...) }

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
