package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeLines(t *testing.T) {
	input := `# Title

Intro text.

## Methodology

We used **X** and *Y*.

### Study Design

Design content.

## Conclusion

It worked.
`
	p := &MarkdownParser{}
	got, err := p.Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Title\nIntro text.\nMethodology\nWe used X and Y.\nStudy Design\nDesign content.\nConclusion\nIt worked.\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_CodeBlocksAndLists(t *testing.T) {
	input := "## Datasets\n\n- first set\n- second set\n\n```\nGET /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	got, err := p.Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Datasets\n", "first set\nsecond set\n", "GET /api/users\n", "More text after code.\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
	if strings.Count(got, "first set") != 1 {
		t.Errorf("expected list text once, got %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Extract(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
