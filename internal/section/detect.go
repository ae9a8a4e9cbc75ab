package section

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Detector finds known headings in extracted document text.
// A Detector is immutable and safe for concurrent use.
type Detector struct {
	vocabulary []string
	pattern    *regexp.Regexp   // any entry, anywhere
	entries    []*regexp.Regexp // each entry, anchored
}

// NewDetector compiles the vocabulary into a case-insensitive alternation.
// Matches must be whole words in the Unicode sense. Earlier entries win
// when several match at the same position.
func NewDetector(vocabulary []string) (*Detector, error) {
	if len(vocabulary) == 0 {
		return nil, errors.New("empty heading vocabulary")
	}
	alts := make([]string, 0, len(vocabulary))
	vocab := make([]string, 0, len(vocabulary))
	entries := make([]*regexp.Regexp, 0, len(vocabulary))
	for i, v := range vocabulary {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("vocabulary entry %d is empty", i)
		}
		vocab = append(vocab, v)
		alts = append(alts, regexp.QuoteMeta(v))
		entry, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(v))
		if err != nil {
			return nil, fmt.Errorf("compile vocabulary entry %q: %w", v, err)
		}
		entries = append(entries, entry)
	}
	pattern, err := regexp.Compile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile heading pattern: %w", err)
	}
	return &Detector{vocabulary: vocab, pattern: pattern, entries: entries}, nil
}

var defaultDetector = mustDetector(DefaultVocabulary)

func mustDetector(vocabulary []string) *Detector {
	d, err := NewDetector(vocabulary)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultDetector returns the detector for DefaultVocabulary.
func DefaultDetector() *Detector {
	return defaultDetector
}

// Detect runs the default vocabulary over text.
func Detect(text string) []string {
	return defaultDetector.Detect(text)
}

// Vocabulary returns a copy of the detector's vocabulary.
func (d *Detector) Vocabulary() []string {
	out := make([]string, len(d.vocabulary))
	copy(out, d.vocabulary)
	return out
}

// Detect returns the normalized headings found in text, unique and in order
// of first occurrence. Only the leftmost match on each line counts.
func (d *Detector) Detect(text string) []string {
	headings := []string{}
	seen := make(map[string]bool)
	for _, line := range splitLines(text) {
		m, ok := d.match(strings.TrimSpace(line))
		if !ok {
			continue
		}
		h := Normalize(m)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headings = append(headings, h)
	}
	return headings
}

// match returns the leftmost whole-word vocabulary hit in line. At each
// position the entries are tried in vocabulary order.
func (d *Detector) match(line string) (string, bool) {
	for off := 0; off < len(line); {
		loc := d.pattern.FindStringIndex(line[off:])
		if loc == nil {
			return "", false
		}
		pos := off + loc[0]
		for _, entry := range d.entries {
			m := entry.FindStringIndex(line[pos:])
			if m != nil && isWordBoundary(line, pos) && isWordBoundary(line, pos+m[1]) {
				return line[pos : pos+m[1]], true
			}
		}
		_, size := utf8.DecodeRuneInString(line[pos:])
		off = pos + size
	}
	return "", false
}

// isWordBoundary reports whether exactly one of the runes around byte
// offset i is a word character.
func isWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize turns a matched heading into its label: separators and
// surrounding space removed, first letter upper case, the rest lower case.
func Normalize(match string) string {
	s := strings.TrimSpace(match)
	s = strings.TrimRight(s, ":- \t")
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	// cases.Caser is stateful, so one per call.
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}

// splitLines breaks text on every line boundary extracted text may carry,
// including form feeds between PDF pages.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
