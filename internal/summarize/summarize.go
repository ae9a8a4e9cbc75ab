// Package summarize turns one section of a paper into a short summary using a
// remote language model, or a local extractive fallback.
package summarize

import (
	"context"
	"errors"
	"fmt"
)

// Summarizer produces a summary of sectionText, which sits under heading.
type Summarizer interface {
	Summarize(ctx context.Context, sectionText, heading string) (string, error)
}

// Params are the generation settings sent to the remote model.
type Params struct {
	MaxTokens        int
	Temperature      float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultParams keep summaries short and deterministic with little repetition.
func DefaultParams() Params {
	return Params{
		MaxTokens:        150,
		Temperature:      0.1,
		FrequencyPenalty: 0.9,
		PresencePenalty:  0.7,
	}
}

// SummarizationError reports a failed summarization call. StatusCode and
// Body are set when the remote service answered with a non-success status.
type SummarizationError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *SummarizationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d - %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient: rate limiting, a
// server-side error or a transport failure.
func (e *SummarizationError) Retryable() bool {
	if e.StatusCode == 429 || e.StatusCode >= 500 {
		return true
	}
	if e.StatusCode != 0 || e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	var perm *permanentError
	return !errors.As(e.Err, &perm)
}

// permanentError marks a failure that happened after a successful response,
// such as an undecodable body.
type permanentError struct {
	msg string
}

func (e *permanentError) Error() string { return e.msg }

func permanent(format string, args ...any) error {
	return &permanentError{msg: fmt.Sprintf(format, args...)}
}
