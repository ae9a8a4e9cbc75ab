package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		w.AddParagraph().AddText(p)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser_ParagraphPerLine(t *testing.T) {
	data := buildDocx(t, "Abstract", "We study X.", "Conclusion", "It worked.")

	p := &DOCXParser{}
	got, err := p.Extract(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Abstract\nWe study X.\nConclusion\nIt worked.\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDOCXParser_NotADocx(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Extract(strings.NewReader("plain text, not a zip")); err == nil {
		t.Error("expected error for invalid docx")
	}
}
