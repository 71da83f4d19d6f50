package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
)

// statusError is a non-2xx answer from the API.
type statusError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// mapError translates OpenAI and network errors into llm.ProviderError values.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewProviderError(llm.ErrCodeTimeout, "request timed out or cancelled", err)
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized:
			return llm.NewProviderError(llm.ErrCodeAuthentication, se.Message, err)
		case se.StatusCode == http.StatusTooManyRequests:
			return llm.NewProviderError(llm.ErrCodeRateLimit, se.Message, err)
		case se.Code == "model_not_found" || se.StatusCode == http.StatusNotFound:
			return llm.NewProviderError(llm.ErrCodeModelNotFound, se.Message, err)
		case se.Code == "context_length_exceeded":
			return llm.NewProviderError(llm.ErrCodeContextLength, se.Message, err)
		case se.StatusCode == http.StatusServiceUnavailable:
			return llm.NewProviderError(llm.ErrCodeUnavailable, se.Message, err)
		case se.StatusCode >= 500:
			return llm.NewProviderError(llm.ErrCodeServerError, se.Message, err)
		default:
			return llm.NewProviderError(llm.ErrCodeInvalidRequest, se.Message, err)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return llm.NewProviderError(llm.ErrCodeUnavailable, "openai server unreachable", err)
	}

	return llm.NewProviderError(llm.ErrCodeServerError, "openai error", err)
}
