package section

import (
	"fmt"
	"strings"
)

// BoundaryPolicy decides where a section ends.
type BoundaryPolicy int

const (
	// BoundaryNearest ends a section at the closest other detected heading
	// that follows its label.
	BoundaryNearest BoundaryPolicy = iota
	// BoundaryFirstMatch ends a section at the first other heading, in
	// detection order, found anywhere after its label. A closer heading that
	// comes later in detection order is overrun.
	BoundaryFirstMatch
)

func (p BoundaryPolicy) String() string {
	switch p {
	case BoundaryNearest:
		return "nearest"
	case BoundaryFirstMatch:
		return "first-match"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(p))
}

// ParseBoundaryPolicy accepts "nearest" or "first-match".
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return BoundaryNearest, nil
	case "first-match", "first_match", "first":
		return BoundaryFirstMatch, nil
	}
	return 0, fmt.Errorf("unknown section boundary policy %q", s)
}

// Span is a [Start, End) range of the document text owned by Heading.
// Start and End are byte offsets into the UTF-8 text, not character counts.
type Span struct {
	Heading string `json:"heading"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Section is a span together with its trimmed text.
type Section struct {
	Span
	Body string `json:"body"`
}

// Extract slices the section belonging to heading out of text. detected is
// the full list of headings found in the document; every entry other than
// heading is a candidate end boundary.
//
// The body keeps the heading label itself. A section is empty when nothing
// but whitespace and a ':' or '-' separator follows the label.
func Extract(text string, detected []string, heading string, policy BoundaryPolicy) (Section, error) {
	start, labelEnd := locate(text, heading)
	if start == NotFound {
		return Section{}, &HeadingNotFoundError{Heading: heading}
	}

	end := len(text)
	rest := text[labelEnd:]
	for _, other := range detected {
		if other == heading {
			continue
		}
		pos := Locate(rest, other)
		if pos == NotFound {
			continue
		}
		abs := labelEnd + pos
		if policy == BoundaryFirstMatch {
			end = abs
			break
		}
		if abs < end {
			end = abs
		}
	}

	content := strings.TrimSpace(text[labelEnd:end])
	content = strings.TrimSpace(strings.TrimLeft(content, ":-"))
	if content == "" {
		return Section{}, &EmptySectionError{Heading: heading}
	}

	return Section{
		Span: Span{Heading: heading, Start: start, End: end},
		Body: strings.TrimSpace(text[start:end]),
	}, nil
}
