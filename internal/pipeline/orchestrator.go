package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/papersum/internal/config"
	"github.com/dgallion1/papersum/internal/parser"
	"github.com/dgallion1/papersum/internal/section"
	"github.com/dgallion1/papersum/internal/session"
	"github.com/dgallion1/papersum/internal/summarize"
)

// ErrNoSummarizer is returned by Summarize when the orchestrator was built
// without a summarizer.
var ErrNoSummarizer = errors.New("no summarizer configured")

// Orchestrator ties document extraction, heading detection, session state
// and summarization together.
type Orchestrator struct {
	sessions   *session.Store
	detector   *section.Detector
	runner     *Runner
	log        *slog.Logger
	policy     section.BoundaryPolicy
	parserOpts parser.Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. detector may be nil to use the
// default vocabulary; summarizer may be nil when only sectioning is needed.
func NewOrchestrator(cfg config.Config, detector *section.Detector, summarizer summarize.Summarizer, log *slog.Logger) *Orchestrator {
	if detector == nil {
		detector = section.DefaultDetector()
	}
	o := &Orchestrator{
		sessions:   session.NewStore(cfg.SessionTTL),
		detector:   detector,
		log:        log,
		policy:     cfg.Boundary(),
		parserOpts: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}
	if summarizer != nil {
		o.runner = NewRunner(summarizer, o.policy, cfg.SummaryConcurrency, log)
	}
	return o
}

// Start launches the session janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	janitorCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		<-o.sessions.StartJanitor(janitorCtx, 5*time.Minute)
	}()
}

// Stop shuts down background work.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Ingest extracts the text of an uploaded document, detects its headings
// and registers a new session for it. Extraction failures are returned as
// *parser.ExtractionError.
func (o *Orchestrator) Ingest(filename string, data []byte) (*session.Session, error) {
	log := o.log.With("filename", filename)

	start := time.Now()
	text, err := parser.ExtractFile(filename, bytes.NewReader(data), o.parserOpts)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return nil, err
	}

	headings := o.detector.Detect(text)
	sess := session.New(filename, text, headings)
	o.sessions.Put(sess)

	log = log.With("session_id", sess.ID)
	if len(headings) == 0 {
		log.Warn("no headings detected", "text_length", len(text))
	}
	log.Info("document ingested",
		"bytes", len(data),
		"text_length", len(text),
		"headings", len(headings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

// Session returns a session by ID, or nil.
func (o *Orchestrator) Session(id string) *session.Session {
	return o.sessions.Get(id)
}

// DeleteSession drops a session and reports whether it existed.
func (o *Orchestrator) DeleteSession(id string) bool {
	return o.sessions.Delete(id)
}

// SessionCount returns the number of live sessions.
func (o *Orchestrator) SessionCount() int {
	return o.sessions.Len()
}

// Section extracts one heading's section from the session's document.
func (o *Orchestrator) Section(sess *session.Session, heading string) (section.Section, error) {
	return section.Extract(sess.Text(), sess.Headings(), heading, o.policy)
}

// Summarize summarizes every selected heading of the session.
func (o *Orchestrator) Summarize(ctx context.Context, sess *session.Session, opts RunOptions) ([]HeadingResult, error) {
	if o.runner == nil {
		return nil, ErrNoSummarizer
	}
	results, err := o.runner.Run(ctx, sess, opts)
	if err != nil {
		return results, fmt.Errorf("summarize session %s: %w", sess.ID, err)
	}
	return results, nil
}
