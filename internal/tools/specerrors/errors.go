package specerrors

import (
	"errors"
	"fmt"
)

// Code defines the type for spec processing error codes.
type Code string

const (
	// CodeUnresolvedReference indicates a $ref that does not point inside the document.
	CodeUnresolvedReference Code = "UnresolvedReference"
	// CodeUnsupportedPathMethod indicates a path item key that is neither a method nor a known field.
	CodeUnsupportedPathMethod Code = "UnsupportedPathMethod"
	// CodeMissingIntegration indicates an operation without an integration.
	CodeMissingIntegration Code = "MissingIntegration"
	// CodeInvalidApiKeyConfig indicates an api key requirement that cannot be honoured.
	CodeInvalidApiKeyConfig Code = "InvalidApiKeyConfig"
	// CodeSecuritySchemeConflict indicates incompatible security schemes sharing an id.
	CodeSecuritySchemeConflict Code = "SecuritySchemeConflict"
	// CodeAuthorizerConflict indicates document security requirements overridden by a different authorizer.
	CodeAuthorizerConflict Code = "AuthorizerConflict"
	// CodeMultipleMethodsForRoute indicates a websocket path without exactly one method.
	CodeMultipleMethodsForRoute Code = "MultipleMethodsForRoute"
	// CodeInvalidRequestBodySchema indicates a request body that is not a schema object.
	CodeInvalidRequestBodySchema Code = "InvalidRequestBodySchema"
	// CodeDuplicateOperation indicates two operations sharing the same method and path.
	CodeDuplicateOperation Code = "DuplicateOperation"
	// CodeInvalidDocument indicates raw content that could not be loaded as an OpenAPI 3 document.
	CodeInvalidDocument Code = "InvalidDocument"
)

// Error is a structured error raised while preparing or extracting from a document.
type Error struct {
	// Code is the machine-readable error code.
	Code Code
	// Message is the human-readable error message.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap provides compatibility for Go's errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error carrying err as its cause.
func Wrap(code Code, err error, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// HasCode reports whether err, or any error it wraps, is an *Error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Code == code {
		return true
	}
	return HasCode(e.Err, code)
}
