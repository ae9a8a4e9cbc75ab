// Package session holds per-document working state: the extracted text, the
// detected headings, the user's heading selection and the summaries produced
// for it.
package session

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Summary is the current summary text for one heading.
type Summary struct {
	Text      string    `json:"text"`
	Edited    bool      `json:"edited"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnknownHeadingError reports a heading that was not detected in the
// session's document.
type UnknownHeadingError struct {
	Heading string
}

func (e *UnknownHeadingError) Error() string {
	return fmt.Sprintf("heading %q was not detected in this document", e.Heading)
}

// Session tracks one uploaded document.
type Session struct {
	mu sync.Mutex

	ID          string
	Filename    string
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	text      string
	headings  []string
	selected  []string
	summaries map[string]Summary
}

// New creates a session with a fresh ID and an empty selection.
func New(filename, text string, headings []string) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		Filename:    filename,
		ContentHash: ContentHashHex([]byte(text)),
		CreatedAt:   now,
		UpdatedAt:   now,
		text:        text,
		headings:    append([]string(nil), headings...),
		summaries:   make(map[string]Summary),
	}
}

// Text returns the full extracted document text.
func (s *Session) Text() string {
	return s.text
}

// Headings returns the detected headings in detection order.
func (s *Session) Headings() []string {
	return append([]string{}, s.headings...)
}

// canonical maps heading onto the detected spelling, matching
// case-insensitively when there is no exact match.
func (s *Session) canonical(heading string) (string, bool) {
	heading = strings.TrimSpace(heading)
	for _, h := range s.headings {
		if h == heading {
			return h, true
		}
	}
	for _, h := range s.headings {
		if strings.EqualFold(h, heading) {
			return h, true
		}
	}
	return "", false
}

// Select appends heading to the selection unless it is already selected.
func (s *Session) Select(heading string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.canonical(heading)
	if !ok {
		return &UnknownHeadingError{Heading: heading}
	}
	for _, sel := range s.selected {
		if sel == h {
			return nil
		}
	}
	s.selected = append(s.selected, h)
	s.UpdatedAt = time.Now()
	return nil
}

// SetSelection replaces the selection. Duplicates are dropped, first
// occurrence wins. Nothing changes if any heading is unknown.
func (s *Session) SetSelection(headings []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]string, 0, len(headings))
	seen := make(map[string]bool, len(headings))
	for _, heading := range headings {
		h, ok := s.canonical(heading)
		if !ok {
			return &UnknownHeadingError{Heading: heading}
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		next = append(next, h)
	}
	s.selected = next
	s.UpdatedAt = time.Now()
	return nil
}

// Deselect removes heading from the selection. Its summary, if any, is kept.
func (s *Session) Deselect(heading string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.canonical(heading)
	if !ok {
		return
	}
	for i, sel := range s.selected {
		if sel == h {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			s.UpdatedAt = time.Now()
			return
		}
	}
}

// Selected returns the selection in the order headings were chosen.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.selected...)
}

// Summary returns the stored summary for heading.
func (s *Session) Summary(heading string) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.canonical(heading)
	if !ok {
		return Summary{}, false
	}
	sum, ok := s.summaries[h]
	return sum, ok
}

// PutSummary stores a generated summary, replacing any earlier one.
func (s *Session) PutSummary(heading, text string) error {
	return s.storeSummary(heading, text, false)
}

// EditSummary stores a user-edited summary.
func (s *Session) EditSummary(heading, text string) error {
	return s.storeSummary(heading, text, true)
}

func (s *Session) storeSummary(heading, text string, edited bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.canonical(heading)
	if !ok {
		return &UnknownHeadingError{Heading: heading}
	}
	now := time.Now()
	s.summaries[h] = Summary{Text: text, Edited: edited, UpdatedAt: now}
	s.UpdatedAt = now
	return nil
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string             `json:"session_id"`
	Filename    string             `json:"filename"`
	ContentHash string             `json:"content_hash"`
	TextLength  int                `json:"text_length"`
	Headings    []string           `json:"headings"`
	Selected    []string           `json:"selected"`
	Summaries   map[string]Summary `json:"summaries"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make(map[string]Summary, len(s.summaries))
	for h, sum := range s.summaries {
		summaries[h] = sum
	}
	return Snapshot{
		ID:          s.ID,
		Filename:    s.Filename,
		ContentHash: s.ContentHash,
		TextLength:  len(s.text),
		Headings:    append([]string{}, s.headings...),
		Selected:    append([]string{}, s.selected...),
		Summaries:   summaries,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
