package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies client failures.
type ErrorCode int

const (
	// ErrCodeTimeout is a request that ran out of time or was cancelled.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection is a dial, TLS or read failure.
	ErrCodeConnection
	// ErrCodeRequest is a request that could not be built.
	ErrCodeRequest
	// ErrCodeDecode is a 2xx response whose body could not be decoded.
	ErrCodeDecode
	// ErrCodeAuth is a 401 or 403.
	ErrCodeAuth
	// ErrCodeNotFound is a 404.
	ErrCodeNotFound
	// ErrCodeRateLimit is a 429.
	ErrCodeRateLimit
	// ErrCodeClient is any other 4xx.
	ErrCodeClient
	// ErrCodeServer is a 5xx or an unexpected status.
	ErrCodeServer
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeRequest:    "request",
	ErrCodeDecode:     "decode",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeClient:     "client",
	ErrCodeServer:     "server",
}

// String returns the error code name.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified client failure.
type Error struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	// Body is the response body, if any.
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// IsStatus reports whether the error carries an HTTP response.
func (e *Error) IsStatus() bool { return e.StatusCode > 0 }

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewRequestError creates an error for a request that could not be built.
func NewRequestError(err error) *Error {
	return &Error{Code: ErrCodeRequest, Message: err.Error(), Err: err}
}

// NewDecodeError creates an error for an undecodable response body.
func NewDecodeError(err error, body []byte) *Error {
	return &Error{Code: ErrCodeDecode, Message: err.Error(), Body: body, Err: err}
}

// ClassifyStatusCode converts a status code into a typed error. It returns nil
// for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       body,
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", statusCode)
	}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}
