package summarize

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var se *SummarizationError
	return errors.As(err, &se) && se.Retryable()
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

type retrying struct {
	next       Summarizer
	maxRetries int
	backoff    func(int) time.Duration
	log        *slog.Logger
}

// WithRetry retries transient failures of s up to maxRetries extra times.
// With maxRetries <= 0 it returns s unchanged.
func WithRetry(s Summarizer, maxRetries int, log *slog.Logger) Summarizer {
	if maxRetries <= 0 {
		return s
	}
	return &retrying{next: s, maxRetries: maxRetries, backoff: Backoff, log: log}
}

func (r *retrying) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	for attempt := 0; ; attempt++ {
		out, err := r.next.Summarize(ctx, sectionText, heading)
		if err == nil || !IsRetryable(err) || attempt >= r.maxRetries {
			return out, err
		}
		if r.log != nil {
			r.log.Warn("retryable summarization error", "heading", heading, "attempt", attempt, "error", err)
		}
		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return "", &SummarizationError{Provider: "retry", Err: ctx.Err()}
		}
	}
}
