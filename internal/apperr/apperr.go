// Package apperr defines the error taxonomy shared by the generation
// pipeline and the HTTP layer. Every error that can surface to a caller
// carries a Kind that maps to an HTTP status and a machine-readable name.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindNotFound           Kind = "NotFoundError"
	KindExtractionFailure  Kind = "ExtractionFailure"
	KindSynthesis          Kind = "SynthesisError"
	KindRateLimit          Kind = "RateLimitError"
	KindServiceUnavailable Kind = "ServiceUnavailableError"
	KindInternal           Kind = "InternalServerError"
)

// Error is the canonical application error.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error wrapping a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithDetails attaches structured detail fields and returns the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Validation builds a ValidationError with detail fields.
func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// KindOf extracts the Kind from an error chain. Unrecognized errors
// classify as InternalServerError.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// DetailsOf extracts detail fields from an error chain, or nil.
func DetailsOf(err error) map[string]any {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Details
	}
	return nil
}

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Body is the wire shape for all error responses.
type Body struct {
	Success   bool           `json:"success"`
	ErrorKind string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
	Timestamp string         `json:"timestamp"`
}

// ToBody converts an error into the canonical response body.
func ToBody(err error) Body {
	kind := KindOf(err)
	msg := err.Error()
	var ae *Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	details := DetailsOf(err)
	if details == nil {
		details = map[string]any{}
	}
	return Body{
		Success:   false,
		ErrorKind: string(kind),
		Message:   msg,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
