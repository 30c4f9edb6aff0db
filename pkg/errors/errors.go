// Package errors defines the coded errors services return and the HTTP
// metadata the response layer derives from each code.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeMethodNotAllowed  Code = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge   Code = "PAYLOAD_TOO_LARGE"
	CodeIdempotency       Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit         Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeDependency        Code = "DEPENDENCY_ERROR"
)

// Metadata drives how a code is rendered to API callers.
type Metadata struct {
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
	// DetailsAllowed lets field-level details through to the response body.
	DetailsAllowed bool
	// ClientFacing marks codes whose own message may be returned verbatim.
	ClientFacing bool
}

func caller(status int, msg string) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, ClientFacing: true}
}

func server(status int, msg string) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, Retryable: true}
}

func (m Metadata) withDetails() Metadata {
	m.DetailsAllowed = true
	return m
}

var registry = map[Code]Metadata{
	CodeValidation:        caller(http.StatusBadRequest, "validation failed").withDetails(),
	CodeInvalidIdentifier: caller(http.StatusBadRequest, "invalid identifier"),
	CodeUnauthorized:      caller(http.StatusUnauthorized, "authentication required"),
	CodeForbidden:         caller(http.StatusForbidden, "access denied"),
	CodeNotFound:          caller(http.StatusNotFound, "resource not found"),
	CodeMethodNotAllowed:  caller(http.StatusMethodNotAllowed, "method not allowed"),
	CodePayloadTooLarge:   caller(http.StatusRequestEntityTooLarge, "payload too large"),
	CodeIdempotency:       caller(http.StatusConflict, "idempotency key reused").withDetails(),
	CodeRateLimit:         caller(http.StatusTooManyRequests, "too many requests, please try again later"),
	CodeInternal:          server(http.StatusInternalServerError, "internal server error"),
	CodeDependency:        server(http.StatusServiceUnavailable, "dependency unavailable"),
}

// MetadataFor falls back to CodeInternal for unregistered codes.
func MetadataFor(code Code) Metadata {
	meta, ok := registry[code]
	if !ok {
		return registry[CodeInternal]
	}
	return meta
}

// Error is a coded error. The message is written for API callers; the cause
// is kept for logs only.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and caller-safe message to err. A nil err yields a
// plain New.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

// Validation builds a VALIDATION_ERROR with optional per-field messages.
func Validation(message string, fields map[string]string) *Error {
	e := New(CodeValidation, message)
	if len(fields) != 0 {
		e.details = fields
	}
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return string(e.code) + ": " + e.message
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err == nil || !stdErrors.As(err, &typed) {
		return nil
	}
	return typed
}

func IsCode(err error, code Code) bool {
	if typed := As(err); typed != nil {
		return typed.code == code
	}
	return false
}
