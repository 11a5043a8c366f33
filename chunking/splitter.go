package chunking

import (
	"regexp"
	"strings"

	"github.com/lexscope/docsearch/token"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Splitter breaks a section that exceeds a token budget into sub-chunks,
// reusing a suffix of each flushed buffer as overlap so context carries
// across the split.
type Splitter struct {
	counter token.Counter
}

// NewSplitter creates a splitter using the given token counter.
func NewSplitter(counter token.Counter) (*Splitter, error) {
	if counter == nil {
		return nil, ErrCounterRequired
	}
	return &Splitter{counter: counter}, nil
}

// Split returns the ordered sub-chunk contents for content under the given
// budget. Content that fits within maxTokens comes back as a single chunk.
// Blank content yields no chunks.
//
// Paragraphs (blank-line separated) are accumulated greedily; the buffer is
// flushed before a paragraph would push it past maxTokens, and the next
// buffer is seeded with trailing paragraphs whose cumulative tokens stay
// within overlapTokens. A paragraph that alone exceeds maxTokens is split
// the same way at sentence granularity. A single sentence over the budget
// is kept whole; that is the one case where a chunk may exceed maxTokens.
func (s *Splitter) Split(content string, maxTokens, overlapTokens int) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if s.counter.Count(content) <= maxTokens {
		return []string{content}
	}

	paragraphs := splitParagraphs(content)

	var chunks []string
	var buf []string
	bufTokens := 0

	for _, para := range paragraphs {
		paraTokens := s.counter.Count(para)

		// A single paragraph over budget: flush, then go to sentence granularity.
		if paraTokens > maxTokens {
			if len(buf) > 0 {
				chunks = append(chunks, strings.Join(buf, "\n\n"))
				buf, bufTokens = nil, 0
			}
			chunks = append(chunks, s.splitOversizedParagraph(para, maxTokens, overlapTokens)...)
			continue
		}

		if bufTokens+paraTokens > maxTokens && len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, "\n\n"))
			buf, bufTokens = s.overlapTail(buf, overlapTokens)
		}

		buf = append(buf, para)
		bufTokens += paraTokens
	}

	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, "\n\n"))
	}

	return chunks
}

// splitOversizedParagraph applies the same greedy-with-overlap accumulation
// at sentence granularity.
func (s *Splitter) splitOversizedParagraph(paragraph string, maxTokens, overlapTokens int) []string {
	sentences := splitSentences(paragraph)

	var chunks []string
	var buf []string
	bufTokens := 0

	for _, sentence := range sentences {
		sentTokens := s.counter.Count(sentence)

		if bufTokens+sentTokens > maxTokens && len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, " "))
			buf, bufTokens = s.overlapTail(buf, overlapTokens)
		}

		buf = append(buf, sentence)
		bufTokens += sentTokens
	}

	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, " "))
	}

	return chunks
}

// overlapTail collects trailing parts, newest last, until adding one more
// would exceed overlapTokens. Returns the tail and its token total.
func (s *Splitter) overlapTail(parts []string, overlapTokens int) ([]string, int) {
	var tail []string
	total := 0
	for i := len(parts) - 1; i >= 0; i-- {
		partTokens := s.counter.Count(parts[i])
		if total+partTokens > overlapTokens {
			break
		}
		tail = append([]string{parts[i]}, tail...)
		total += partTokens
	}
	return tail, total
}

// splitParagraphs splits text on blank-line boundaries, dropping blanks.
func splitParagraphs(text string) []string {
	raw := paragraphBreak.Split(text, -1)
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// splitSentences splits text after runs of terminal punctuation followed
// by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// Consume the full punctuation run.
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
		}
		if i+1 < len(runes) && isSpaceRune(runes[i+1]) {
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			for i+1 < len(runes) && isSpaceRune(runes[i+1]) {
				i++
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		if sentence := strings.TrimSpace(string(runes[start:])); sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
