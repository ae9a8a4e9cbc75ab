package summarize

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSummaryChars = 2000

// Opening of the summary prompt. Output carrying it is the prompt echoed
// back, not a summary.
var promptEcho = strings.ToLower(strings.SplitN(summaryInstructions, "'", 2)[0])

var answerLabel = regexp.MustCompile(`(?i)^(?:answer|summary)\s*[:\-]\s*`)

// CleanSummary tidies model output for heading: leading "Answer:" or
// "Summary:" labels and a repeated heading label are removed and
// whitespace is collapsed. ok is false when nothing usable remains.
func CleanSummary(summary, heading string) (string, bool) {
	s := strings.TrimSpace(summary)
	for {
		before := s
		s = answerLabel.ReplaceAllString(s, "")
		s = stripHeadingLabel(s, heading)
		s = strings.TrimSpace(s)
		if s == before {
			break
		}
	}
	s = strings.Join(strings.Fields(s), " ")

	if len(s) < 3 {
		return "", false
	}
	if strings.Contains(strings.ToLower(s), promptEcho) {
		return "", false
	}
	if len(s) > maxSummaryChars {
		n := maxSummaryChars
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
		if i := strings.LastIndexAny(s, ".!?"); i > 0 {
			s = s[:i+1]
		}
	}
	return s, true
}

// stripHeadingLabel drops heading from the start of s when it is followed by
// a ':' or '-' separator or a line break.
func stripHeadingLabel(s, heading string) string {
	heading = strings.TrimSpace(heading)
	if heading == "" || len(s) <= len(heading) || !strings.EqualFold(s[:len(heading)], heading) {
		return s
	}
	switch s[len(heading)] {
	case ':', '-', '\n':
		return strings.TrimLeft(s[len(heading):], ":- \t\r\n")
	}
	return s
}

type validated struct {
	next Summarizer
}

// WithValidation cleans every summary returned by s and rejects output that
// is empty or repeats the prompt.
func WithValidation(s Summarizer) Summarizer {
	return &validated{next: s}
}

func (v *validated) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	out, err := v.next.Summarize(ctx, sectionText, heading)
	if err != nil {
		return "", err
	}
	cleaned, ok := CleanSummary(out, heading)
	if !ok {
		return "", &SummarizationError{Provider: "validate", Err: permanent("model returned no usable summary for %q", heading)}
	}
	return cleaned, nil
}
