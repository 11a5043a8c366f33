package chunking

import (
	"sort"
	"strings"

	"github.com/lexscope/docsearch/core"
)

// Segmenter detects structural boundaries in raw extracted text and
// classifies the resulting sections. Identical input always yields
// identical boundaries and labels.
type Segmenter struct {
	rules []BoundaryRule
}

// NewSegmenter creates a segmenter. With no rules it uses DefaultRules.
func NewSegmenter(rules ...BoundaryRule) *Segmenter {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Segmenter{rules: rules}
}

// Segment splits text into classified sections.
//
// All rule matches across all patterns are collected and sorted by text
// position to form boundary offsets. Text before the first boundary becomes
// a preamble section when non-blank. When no boundary is found, the whole
// text is one section. Blank input yields no sections.
func (s *Segmenter) Segment(text string) []core.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	boundaries := s.findBoundaries(text)
	if len(boundaries) == 0 {
		return []core.Section{s.makeSection(text)}
	}

	sections := make([]core.Section, 0, len(boundaries)+1)

	// Preamble before the first boundary
	if boundaries[0] > 0 {
		if preamble := text[:boundaries[0]]; strings.TrimSpace(preamble) != "" {
			sections = append(sections, s.makeSection(preamble))
		}
	}

	for i, start := range boundaries {
		end := len(text)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		if span := text[start:end]; strings.TrimSpace(span) != "" {
			sections = append(sections, s.makeSection(span))
		}
	}

	return sections
}

// findBoundaries returns the sorted, deduplicated start offsets of every
// rule match in text.
func (s *Segmenter) findBoundaries(text string) []int {
	seen := make(map[int]bool)
	var boundaries []int
	for _, rule := range s.rules {
		for _, match := range rule.Pattern.FindAllStringIndex(text, -1) {
			if !seen[match[0]] {
				seen[match[0]] = true
				boundaries = append(boundaries, match[0])
			}
		}
	}
	sort.Ints(boundaries)
	return boundaries
}

// makeSection trims a span and classifies it from its first line.
func (s *Segmenter) makeSection(span string) core.Section {
	content := strings.TrimSpace(span)
	heading, _, _ := strings.Cut(content, "\n")
	heading = strings.TrimSpace(heading)
	return core.Section{
		Content: content,
		Type:    Classify(heading, s.rules),
		Heading: heading,
	}
}
