package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCategory classifies a failed acquisition attempt.
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryRateLimit      ErrorCategory = "rate_limit"
	CategoryService        ErrorCategory = "service"
	CategoryRequestFormat  ErrorCategory = "request_format"
	CategoryUnclassified   ErrorCategory = "unclassified"
)

// AcquisitionError is the typed failure of a single chat-completion
// attempt. Hint carries a user-facing remediation suggestion.
type AcquisitionError struct {
	Category ErrorCategory
	Hint     string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// AsAcquisitionError unwraps err to an *AcquisitionError if one is present.
func AsAcquisitionError(err error) (*AcquisitionError, bool) {
	var ae *AcquisitionError
	ok := errors.As(err, &ae)
	return ae, ok
}

// Remediation hints per category.
const (
	hintAuthentication = "API key was rejected. Verify the key and its permissions."
	hintRateLimit      = "The provider is throttling requests. Reduce request frequency or retry later."
	hintService        = "The provider returned a server error. Retry later."
	hintRequestFormat  = "Malformed request. Check the model name and request parameters."
)

// classifyStatus maps an HTTP failure status and response body to the
// acquisition error taxonomy.
func classifyStatus(status int, body string) *AcquisitionError {
	err := fmt.Errorf("HTTP %d: %s", status, strings.TrimSpace(body))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AcquisitionError{Category: CategoryAuthentication, Hint: hintAuthentication, Err: err}
	case status == http.StatusTooManyRequests:
		return &AcquisitionError{Category: CategoryRateLimit, Hint: hintRateLimit, Err: err}
	case status >= 500:
		return &AcquisitionError{Category: CategoryService, Hint: hintService, Err: err}
	case status >= 400:
		return &AcquisitionError{Category: CategoryRequestFormat, Hint: hintRequestFormat, Err: err}
	default:
		return &AcquisitionError{Category: CategoryUnclassified, Hint: err.Error(), Err: err}
	}
}

// Unclassified wraps an arbitrary failure (network error, decode error)
// into the taxonomy, preserving the raw message as the hint.
func Unclassified(err error) *AcquisitionError {
	return &AcquisitionError{Category: CategoryUnclassified, Hint: err.Error(), Err: err}
}
