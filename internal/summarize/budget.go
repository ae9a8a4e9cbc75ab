package summarize

import (
	"context"
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// TruncateTokens cuts text after the word that brings it to about
// maxTokens. Line structure before the cut is kept. maxTokens <= 0 means no
// limit.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}
	maxWords := int(float64(maxTokens) / 1.33)
	if maxWords < 1 {
		maxWords = 1
	}
	words := 0
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				words++
				inWord = false
				if words == maxWords {
					return text[:i]
				}
			}
			continue
		}
		inWord = true
	}
	return text
}

type budgeted struct {
	next      Summarizer
	maxTokens int
}

// WithInputBudget shortens section text to about maxTokens before
// summarizing.
func WithInputBudget(s Summarizer, maxTokens int) Summarizer {
	if maxTokens <= 0 {
		return s
	}
	return &budgeted{next: s, maxTokens: maxTokens}
}

func (b *budgeted) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	return b.next.Summarize(ctx, FitTokens(sectionText, b.maxTokens), heading)
}
