package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeTransport indicates the remote endpoint was unreachable or its
	// response could not be decoded.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodePayloadTooLarge indicates the request body exceeded the server limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeInvalidMedia indicates the media could not be planned for
	// chunking (for example a non-positive probed duration).
	ErrCodeInvalidMedia ErrorCode = "INVALID_MEDIA"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the remote endpoint rejected the credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Environment errors
const (
	// ErrCodeToolNotFound indicates an external tool binary is missing.
	ErrCodeToolNotFound ErrorCode = "TOOL_NOT_FOUND"
	// ErrCodeToolUnavailable indicates an external tool exists but cannot run.
	ErrCodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
)

// Tool output errors
const (
	// ErrCodeParse indicates diagnostic output did not contain an expected pattern.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeSubprocess indicates a tool ran but exited non-zero.
	ErrCodeSubprocess ErrorCode = "SUBPROCESS_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeRemoteAPI indicates the remote endpoint rejected the request.
	ErrCodeRemoteAPI ErrorCode = "REMOTE_API_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeTransport:          true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in this module retries; the flag is advice for calling layers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
