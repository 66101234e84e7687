// Package relayerr defines the error taxonomy shared by the relay domain.
package relayerr

import "fmt"

// Error is a coded domain error. The code surfaces in handler summary logs.
type Error struct {
	ErrCode string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Code returns the machine-readable error code.
func (e *Error) Code() string { return e.ErrCode }

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// Codes used across the relay domain.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeProtectedIdentity = "PROTECTED_IDENTITY"
	CodeValidation        = "VALIDATION"
	CodePersistence       = "PERSISTENCE"
	CodeTransport         = "TRANSPORT"
	CodeEmptyMessage      = "EMPTY_MESSAGE"
)

// Sentinel errors for the fixed-meaning conditions.
var (
	ErrUnauthorized      = &Error{ErrCode: CodeUnauthorized, Message: "identity is not on the allow list"}
	ErrNotFound          = &Error{ErrCode: CodeNotFound, Message: "identity not found"}
	ErrProtectedIdentity = &Error{ErrCode: CodeProtectedIdentity, Message: "the admin identity cannot be removed"}
	ErrEmptyMessage      = &Error{ErrCode: CodeEmptyMessage, Message: "broadcast text is empty"}
)

// Validation wraps an input validation failure.
func Validation(format string, args ...interface{}) *Error {
	return &Error{ErrCode: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure.
func Persistence(msg string, cause error) *Error {
	return &Error{ErrCode: CodePersistence, Message: msg, Cause: cause}
}

// Transport wraps a Telegram API delivery failure.
func Transport(msg string, cause error) *Error {
	return &Error{ErrCode: CodeTransport, Message: msg, Cause: cause}
}
