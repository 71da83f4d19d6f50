package llm

import "errors"

// Error codes shared by every adapter. Providers map their native errors
// to one of these.
const (
	ErrCodeAuthentication = "authentication_error"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeModelNotFound  = "model_not_found"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeContextLength  = "context_length_exceeded"
	ErrCodeServerError    = "server_error"
	ErrCodeTimeout        = "timeout"
	ErrCodeUnavailable    = "unavailable"
	ErrCodeEmptyResponse  = "empty_response"
)

// ProviderError is the typed error every adapter returns for upstream failures.
type ProviderError struct {
	Code    string // One of the ErrCode* constants.
	Message string
	Err     error // May be nil.
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a typed provider error.
func NewProviderError(code, message string, err error) *ProviderError {
	return &ProviderError{Code: code, Message: message, Err: err}
}

// Code returns the ErrCode* value carried by err, or "unknown" when err
// is not a ProviderError. Used as a metrics label.
func Code(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "unknown"
}

func IsAuthenticationError(err error) bool { return hasCode(err, ErrCodeAuthentication) }
func IsRateLimitError(err error) bool      { return hasCode(err, ErrCodeRateLimit) }
func IsModelNotFoundError(err error) bool  { return hasCode(err, ErrCodeModelNotFound) }
func IsInvalidRequestError(err error) bool { return hasCode(err, ErrCodeInvalidRequest) }
func IsContextLengthError(err error) bool  { return hasCode(err, ErrCodeContextLength) }
func IsServerError(err error) bool         { return hasCode(err, ErrCodeServerError) }
func IsTimeoutError(err error) bool        { return hasCode(err, ErrCodeTimeout) }
func IsUnavailableError(err error) bool    { return hasCode(err, ErrCodeUnavailable) }

// IsRetryable reports whether the call may succeed if attempted again.
// The assistant itself never retries; the chat layer uses this to word
// its apology.
func IsRetryable(err error) bool {
	return IsRateLimitError(err) || IsServerError(err) || IsTimeoutError(err) || IsUnavailableError(err)
}

func hasCode(err error, code string) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}
