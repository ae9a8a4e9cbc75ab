package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papersum/internal/config"
	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/section"
	"github.com/dgallion1/papersum/internal/session"
	"github.com/dgallion1/papersum/internal/summarize"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	vocabulary string
	boundary   string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "papersum",
		Short:         "Find the sections of an academic paper and summarize them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.vocabulary, "vocabulary", "", "YAML file of heading names (default: built-in list)")
	root.PersistentFlags().StringVar(&g.boundary, "boundary", "", "section end policy: nearest|first-match (default: SECTION_BOUNDARY or nearest)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(headingsCmd(&g))
	root.AddCommand(sectionsCmd(&g))
	root.AddCommand(summarizeCmd(&g))
	return root
}

// loadConfig reads the environment and applies command-line overrides.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg := config.Load()
	if g.vocabulary != "" {
		cfg.VocabularyFile = g.vocabulary
	}
	if g.boundary != "" {
		if _, err := section.ParseBoundaryPolicy(g.boundary); err != nil {
			return cfg, err
		}
		cfg.SectionBoundary = g.boundary
	}
	return cfg, nil
}

func (g *globalFlags) logger(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelError
	if g.verbose {
		level = cfg.SlogLevel()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openDocument extracts path and returns its session. summarizer may be nil.
func openDocument(cfg config.Config, log *slog.Logger, path string, summarizer summarize.Summarizer) (*pipeline.Orchestrator, *session.Session, error) {
	detector, err := section.LoadDetector(cfg.VocabularyFile)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	orch := pipeline.NewOrchestrator(cfg, detector, summarizer, log)
	sess, err := orch.Ingest(filepath.Base(path), data)
	if err != nil {
		return nil, nil, err
	}
	return orch, sess, nil
}

// selectHeadings selects the requested headings, or every detected heading
// when none were requested. Headings that were not detected are reported on
// stderr and skipped.
func selectHeadings(sess *session.Session, requested []string, stderr io.Writer) {
	if len(requested) == 0 {
		requested = sess.Headings()
	}
	for _, h := range requested {
		if err := sess.Select(h); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}
}

func warnSkipped(results []pipeline.HeadingResult, stderr io.Writer) {
	for _, res := range results {
		switch res.Status {
		case pipeline.StatusNotFound:
			fmt.Fprintf(stderr, "warning: heading '%s' not found in the document\n", res.Heading)
		case pipeline.StatusEmpty:
			fmt.Fprintf(stderr, "warning: no content found for heading '%s'\n", res.Heading)
		case pipeline.StatusFailed:
			fmt.Fprintf(stderr, "warning: summarizing '%s' failed: %s\n", res.Heading, res.Error)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
