// Package extract fetches and extracts text content from candidate URLs.
// A lightweight HTTP strategy is tried first; when it yields no usable
// content the engine falls back once to a headless-browser strategy.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/sells-group/profilegen/internal/model"
)

// DefaultMinContentLength is the minimum extracted text length for a
// result to count as usable. Shorter pages are usually JS shells.
const DefaultMinContentLength = 300

// Strategy fetches a single URL and extracts its text content.
type Strategy interface {
	Extract(ctx context.Context, src model.SourceURL) (*model.ExtractionResult, error)
	Name() model.ExtractionStrategy
	Supports(src model.SourceURL) bool
}

// Failure is a typed extraction failure carrying the canonical reason
// string recorded on failed ExtractionResults.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("extract: %s: %v", f.Reason, f.Err)
	}
	return "extract: " + f.Reason
}

func (f *Failure) Unwrap() error { return f.Err }

// failTimeout, failBlocked etc. build canonical failures.
func failTimeout(err error) *Failure { return &Failure{Reason: model.FailureTimeout, Err: err} }
func failBlocked() *Failure          { return &Failure{Reason: model.FailureBlocked} }
func failEmpty() *Failure            { return &Failure{Reason: model.FailureEmptyContent} }
func failHTTP(code int) *Failure {
	return &Failure{Reason: fmt.Sprintf("%s%d", model.FailureHTTPPrefix, code)}
}

// reasonOf extracts the canonical reason from an error chain, defaulting
// to empty_content for unclassified failures.
func reasonOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.FailureTimeout
	}
	return model.FailureEmptyContent
}
