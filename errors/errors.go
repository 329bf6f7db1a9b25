package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Validation ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// PayloadTooLarge creates a new AppError for a request body over limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code:       ErrCodePayloadTooLarge,
		Message:    fmt.Sprintf("Request body exceeds %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details:    map[string]any{"limit": limit},
	}
}

// InvalidMedia creates a new AppError for media that cannot be split into chunks.
func InvalidMedia(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidMedia, Message: reason,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// --- Resources ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// --- Environment ---

// ToolNotFound creates a new AppError for an external tool binary that does not exist.
func ToolNotFound(tool string, paths ...string) *AppError {
	return &AppError{
		Code:       ErrCodeToolNotFound,
		Message:    fmt.Sprintf("%s executable not found at: %s", tool, strings.Join(paths, ", ")),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"tool": tool, "paths": paths},
	}
}

// ToolUnavailable creates a new AppError for an external tool that exists but cannot run.
func ToolUnavailable(tool, path string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeToolUnavailable,
		Message:    fmt.Sprintf("%s at %s failed to run; ensure it is installed and executable", tool, path),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"tool": tool, "path": path}, Cause: cause,
	}
}

// ToolTimeout creates a new AppError for a tool invocation that ran past its
// configured time limit.
func ToolTimeout(tool, path string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("%s at %s did not finish within its time limit", tool, path),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"tool": tool, "path": path}, Cause: cause,
	}
}

// --- Tool output ---

// ParseFailure creates a new AppError for diagnostic output that did not
// contain the expected pattern. The raw output is kept for diagnosis.
func ParseFailure(what, output string, exitCode int) *AppError {
	return &AppError{
		Code:       ErrCodeParse,
		Message:    fmt.Sprintf("Failed to extract %s from tool output. Exit code: %d. Output: %s", what, exitCode, output),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"output": output, "exit_code": exitCode},
	}
}

// SubprocessFailed creates a new AppError for a tool that exited non-zero.
func SubprocessFailed(tool string, exitCode int, stderr, stdout string) *AppError {
	return &AppError{
		Code: ErrCodeSubprocess,
		Message: fmt.Sprintf("%s failed. Exit code: %d. Stderr: %s. Stdout: %s",
			tool, exitCode, stderr, stdout),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"tool": tool, "exit_code": exitCode, "stderr": stderr, "stdout": stdout},
	}
}

// --- Remote ---

// Unauthorized creates a new AppError for a rejected credential.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// RemoteAPI creates a new AppError for a remote endpoint that rejected the request.
// The status code and body are embedded verbatim.
func RemoteAPI(service string, status int, body string) *AppError {
	return &AppError{
		Code:       ErrCodeRemoteAPI,
		Message:    fmt.Sprintf("%s API error (status %d): %s", service, status, body),
		HTTPStatus: http.StatusBadGateway, Retryable: status == http.StatusTooManyRequests || status >= 500,
		Details: map[string]any{"service": service, "status": status, "body": body},
	}
}

// Transport creates a new AppError for an unreachable endpoint or an
// undecodable response. kind is "connection", "timeout" or "decode".
func Transport(service, kind string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeTransport,
		Message:    fmt.Sprintf("%s %s failure", service, kind),
		HTTPStatus: http.StatusBadGateway, Retryable: kind != "decode",
		Details: map[string]any{"service": service, "kind": kind}, Cause: cause,
	}
}

// --- Internal ---

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
