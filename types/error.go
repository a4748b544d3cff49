package types

import "fmt"

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Graph build error codes
const (
	ErrInvalidStartNode    ErrorCode = "INVALID_START_NODE"
	ErrUnknownEdgeEndpoint ErrorCode = "UNKNOWN_EDGE_ENDPOINT"
	ErrDuplicateNode       ErrorCode = "DUPLICATE_NODE"
)

// Lookup error codes
const (
	ErrGraphNotFound ErrorCode = "GRAPH_NOT_FOUND"
	ErrRunNotFound   ErrorCode = "RUN_NOT_FOUND"
)

// Run execution error codes
const (
	ErrUnregisteredTool ErrorCode = "UNREGISTERED_TOOL"
	ErrMaxStepsExceeded ErrorCode = "MAX_STEPS_EXCEEDED"
)

// Transport / infrastructure error codes
const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrStoreFailure   ErrorCode = "STORE_FAILURE"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
// All engine errors are terminal for the operation that raised them; none
// are retried internally.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err is an *Error carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
