package section

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultVocabulary lists the academic section names recognized as headings,
// in match-priority order.
var DefaultVocabulary = []string{
	"Abstract",
	"Introduction",
	"Methodology",
	"Conclusion",
	"Related Work",
	"Study Design",
	"Experimental Setup",
	"Datasets",
	"Experimental Results",
	"Observations",
	"Future Work",
}

type vocabularyFile struct {
	Headings []string `yaml:"headings"`
}

// LoadVocabulary reads a heading vocabulary from a YAML file of the form
//
//	headings:
//	  - Abstract
//	  - Introduction
//
// Order is preserved; case-insensitive duplicates are dropped.
func LoadVocabulary(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var vf vocabularyFile
	if err := yaml.Unmarshal(b, &vf); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	seen := make(map[string]bool, len(vf.Headings))
	vocab := make([]string, 0, len(vf.Headings))
	for i, h := range vf.Headings {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("vocabulary %s: entry %d is empty", path, i)
		}
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		vocab = append(vocab, h)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocabulary %s: no headings", path)
	}
	return vocab, nil
}

// LoadDetector builds a detector from the vocabulary file at path, or
// returns the default detector when path is empty.
func LoadDetector(path string) (*Detector, error) {
	if path == "" {
		return DefaultDetector(), nil
	}
	vocab, err := LoadVocabulary(path)
	if err != nil {
		return nil, err
	}
	return NewDetector(vocab)
}
