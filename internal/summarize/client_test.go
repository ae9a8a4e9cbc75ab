package summarize

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/papersum/internal/config"
)

func TestNew_Extractive(t *testing.T) {
	cfg := config.Config{SummaryProvider: "extractive", SummaryMaxInputTokens: 20}
	c, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()
	if c.Provider != "extractive" || c.Model != "extractive" {
		t.Fatalf("unexpected client %+v", c)
	}

	body := "Results\nThe method wins. " + strings.Repeat("More detail follows here. ", 40)
	out, err := c.Summarize(context.Background(), body, "Results")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "The method wins.") {
		t.Errorf("out = %q", out)
	}
	if EstimateTokens(out) > 20 {
		t.Errorf("input budget not applied, got %d tokens", EstimateTokens(out))
	}
	if snap := c.Stats.Snapshot(); snap.Count != 1 {
		t.Errorf("expected one recorded call, got %d", snap.Count)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := config.Config{SummaryProvider: "carrier-pigeon"}
	if _, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewClient_CleansOutput(t *testing.T) {
	c := NewClient("stub", "stub-model", &stubSummarizer{out: "Answer: It works."})
	out, err := c.Summarize(context.Background(), "text", "Results")
	if err != nil {
		t.Fatal(err)
	}
	if out != "It works." {
		t.Fatalf("out = %q", out)
	}
	c.Close()
}
