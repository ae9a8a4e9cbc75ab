package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/papersum/internal/section"
	"github.com/dgallion1/papersum/internal/session"
	"github.com/dgallion1/papersum/internal/summarize"
)

// Status is the outcome for one selected heading.
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// HeadingResult reports what happened to one selected heading.
type HeadingResult struct {
	Heading string `json:"heading"`
	Status  Status `json:"status"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Body    string `json:"body,omitempty"`
	Summary string `json:"summary,omitempty"`
	Cached  bool   `json:"cached"`
	Error   string `json:"error,omitempty"`
}

// RunOptions controls a summarization run.
type RunOptions struct {
	// Force regenerates summaries that are already stored on the session.
	Force bool
}

// Runner summarizes the selected sections of a session.
type Runner struct {
	summarizer  summarize.Summarizer
	log         *slog.Logger
	policy      section.BoundaryPolicy
	concurrency int
}

func NewRunner(s summarize.Summarizer, policy section.BoundaryPolicy, concurrency int, log *slog.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Runner{
		summarizer:  s,
		log:         log,
		policy:      policy,
		concurrency: concurrency,
	}
}

// Run processes the session's selection. Results come back in selection
// order. A heading that cannot be located or is empty is skipped with a
// warning and the rest still run. The returned error is non-nil only when ctx
// ended before every heading was handled.
func (r *Runner) Run(ctx context.Context, sess *session.Session, opts RunOptions) ([]HeadingResult, error) {
	log := r.log.With("session_id", sess.ID)
	selected := sess.Selected()
	detected := sess.Headings()
	text := sess.Text()

	start := time.Now()
	results := make([]HeadingResult, len(selected))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, heading := range selected {
		g.Go(func() error {
			results[i] = r.runOne(ctx, log, sess, text, detected, heading, opts)
			return nil
		})
	}
	_ = g.Wait()

	counts := make(map[Status]int, 4)
	for _, res := range results {
		counts[res.Status]++
	}
	log.Info("summarization run complete",
		"headings", len(selected),
		"ok", counts[StatusOK],
		"not_found", counts[StatusNotFound],
		"empty", counts[StatusEmpty],
		"failed", counts[StatusFailed],
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return results, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, log *slog.Logger, sess *session.Session, text string, detected []string, heading string, opts RunOptions) HeadingResult {
	res := HeadingResult{Heading: heading, Start: section.NotFound, End: section.NotFound}
	if err := ctx.Err(); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	sec, err := section.Extract(text, detected, heading, r.policy)
	if err != nil {
		var notFound *section.HeadingNotFoundError
		var empty *section.EmptySectionError
		switch {
		case errors.As(err, &notFound):
			res.Status = StatusNotFound
		case errors.As(err, &empty):
			res.Status = StatusEmpty
		default:
			res.Status = StatusFailed
		}
		res.Error = err.Error()
		log.Warn("section skipped", "heading", heading, "status", res.Status, "error", err)
		return res
	}
	res.Start, res.End, res.Body = sec.Start, sec.End, sec.Body

	if !opts.Force {
		if cached, ok := sess.Summary(heading); ok {
			res.Status = StatusOK
			res.Summary = cached.Text
			res.Cached = true
			return res
		}
	}

	summary, err := r.summarizer.Summarize(ctx, sec.Body, heading)
	if err != nil {
		log.Error("summarization failed", "heading", heading, "error", err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}
	if err := sess.PutSummary(heading, summary); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	res.Status = StatusOK
	res.Summary = summary
	return res
}
