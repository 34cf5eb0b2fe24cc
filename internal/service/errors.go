package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the client-visible category of a service error.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindAuthentication ErrorKind = "authentication"
	KindNotFound       ErrorKind = "not_found"
	KindForbidden      ErrorKind = "forbidden"
)

// Error is a categorized service failure. Message is safe to show to clients;
// Err holds the internal cause and is only logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "account already exists"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "access to resource denied"}
)

func validationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func conflictError(cause error) *Error {
	return &Error{Kind: KindConflict, Message: "account already exists", Err: cause}
}

func authenticationError(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: cause}
}

// KindOf returns the kind of a service error, or "" for internal errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the client-safe message of a service error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// FieldsOf returns per-field validation messages, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
