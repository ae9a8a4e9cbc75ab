package summarize

import (
	"context"
	"strings"
)

const providerExtractive = "extractive"

// Extractive is an offline summarizer: the leading words of the section,
// cut back to the last full sentence when truncated.
type Extractive struct {
	MaxWords int
}

func (e Extractive) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &SummarizationError{Provider: providerExtractive, Err: err}
	}
	maxWords := e.MaxWords
	if maxWords <= 0 {
		maxWords = 100
	}

	body := strings.TrimSpace(sectionText)
	if len(body) >= len(heading) && strings.EqualFold(body[:len(heading)], heading) {
		body = body[len(heading):]
	}
	body = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(body), ":-"))

	words := strings.Fields(body)
	if len(words) == 0 {
		return "", &SummarizationError{Provider: providerExtractive, Err: permanent("no text to summarize")}
	}
	truncated := len(words) > maxWords
	if truncated {
		words = words[:maxWords]
	}
	out := strings.Join(words, " ")
	if truncated {
		if i := strings.LastIndexAny(out, ".!?"); i > 0 {
			out = out[:i+1]
		}
	}
	return out, nil
}
