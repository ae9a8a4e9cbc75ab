package summarize

import (
	"context"
	"errors"
	"testing"
)

func TestExtractiveStripsHeading(t *testing.T) {
	e := Extractive{MaxWords: 50}
	out, err := e.Summarize(context.Background(), "Abstract: We study section detection.", "Abstract")
	if err != nil {
		t.Fatal(err)
	}
	if out != "We study section detection." {
		t.Fatalf("out = %q", out)
	}
}

func TestExtractiveTruncatesToSentence(t *testing.T) {
	e := Extractive{MaxWords: 6}
	out, err := e.Summarize(context.Background(), "Results\nIt works. It works well on long papers too.", "Results")
	if err != nil {
		t.Fatal(err)
	}
	if out != "It works." {
		t.Fatalf("out = %q", out)
	}
}

func TestExtractiveEmptyBody(t *testing.T) {
	e := Extractive{}
	_, err := e.Summarize(context.Background(), "Conclusion:", "Conclusion")
	var se *SummarizationError
	if !errors.As(err, &se) {
		t.Fatalf("expected SummarizationError, got %v", err)
	}
	if se.Retryable() {
		t.Fatal("empty body should not be retryable")
	}
}

func TestExtractiveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Extractive{}).Summarize(ctx, "Abstract text", "Abstract"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
