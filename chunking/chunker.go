package chunking

import (
	"log/slog"
	"strconv"

	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/token"
)

const (
	// DefaultMaxTokens is the default token budget per chunk.
	DefaultMaxTokens = 2000
	// DefaultOverlapTokens is the default context overlap between sub-chunks.
	DefaultOverlapTokens = 200

	// Headings at or above this length are not repeated as continuation
	// prefixes, so the prefix cannot dominate small chunks.
	headingPrefixLimit = 120
	// Heading length caps inside the continuation prefix and the metadata.
	headingPrefixTruncate   = 100
	headingMetadataTruncate = 80
)

// Chunker turns raw extracted text into an ordered sequence of
// retrieval-sized chunks. It is pure and deterministic: identical input
// with identical configuration produces an identical chunk sequence.
type Chunker struct {
	segmenter *Segmenter
	splitter  *Splitter
	counter   token.Counter
	logger    *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithRules replaces the default boundary rule table.
func WithRules(rules []BoundaryRule) Option {
	return func(c *Chunker) error {
		if len(rules) == 0 {
			return ErrRulesRequired
		}
		c.segmenter = NewSegmenter(rules...)
		return nil
	}
}

// NewChunker creates a chunker using the given token counter.
func NewChunker(counter token.Counter, opts ...Option) (*Chunker, error) {
	if counter == nil {
		return nil, ErrCounterRequired
	}

	splitter, err := NewSplitter(counter)
	if err != nil {
		return nil, err
	}

	c := &Chunker{
		segmenter: NewSegmenter(),
		splitter:  splitter,
		counter:   counter,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Segment exposes boundary detection so callers can fan out per-section
// work; see Pipeline in the ingestion package.
func (c *Chunker) Segment(text string) []core.Section {
	return c.segmenter.Segment(text)
}

// SectionChunks holds the final chunk contents produced from one section,
// continuation prefixes already applied, in reading order.
type SectionChunks struct {
	Section  core.Section
	Contents []string
}

// ChunkSection produces the final chunk contents for a single section.
// Safe to call concurrently for independent sections.
func (c *Chunker) ChunkSection(section core.Section, maxTokens, overlapTokens int) SectionChunks {
	if c.counter.Count(section.Content) <= maxTokens {
		return SectionChunks{Section: section, Contents: []string{section.Content}}
	}

	subChunks := c.splitter.Split(section.Content, maxTokens, overlapTokens)

	// Sub-chunks after the first get a synthetic continuation prefix built
	// from the section heading, unless the heading is too long to repeat.
	prefix := ""
	if len([]rune(section.Heading)) < headingPrefixLimit {
		prefix = "[Continuação de: " + truncateRunes(section.Heading, headingPrefixTruncate) + "]\n\n"
	}

	contents := make([]string, len(subChunks))
	for i, sub := range subChunks {
		if i == 0 || prefix == "" {
			contents[i] = sub
		} else {
			contents[i] = prefix + sub
		}
	}

	return SectionChunks{Section: section, Contents: contents}
}

// Assemble builds the persisted chunk records from per-section contents,
// assigning zero-based strictly increasing indices across the document.
// Parts must be in original section order.
func (c *Chunker) Assemble(documentID core.ID, parts []SectionChunks) []*core.Chunk {
	var chunks []*core.Chunk
	index := 0

	for _, part := range parts {
		total := len(part.Contents)
		for sub, content := range part.Contents {
			metadata := map[string]string{
				core.MetaSectionHeading: truncateRunes(part.Section.Heading, headingMetadataTruncate),
			}
			if total > 1 {
				metadata[core.MetaSubChunk] = strconv.Itoa(sub)
				metadata[core.MetaTotalSubChunks] = strconv.Itoa(total)
			}

			chunks = append(chunks, &core.Chunk{
				DocumentID:  documentID,
				ChunkIndex:  index,
				Content:     content,
				SectionType: part.Section.Type,
				TokenCount:  c.counter.Count(content),
				Metadata:    metadata,
			})
			index++
		}
	}

	return chunks
}

// BuildChunks runs the full chunking flow sequentially: segment, split
// each section under the token budget, and assemble ordered chunk records.
// Empty or whitespace-only text yields no chunks and no error.
func (c *Chunker) BuildChunks(documentID core.ID, text string, maxTokens, overlapTokens int) []*core.Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = DefaultOverlapTokens
	}

	sections := c.segmenter.Segment(text)
	if len(sections) == 0 {
		return nil
	}

	parts := make([]SectionChunks, len(sections))
	for i, section := range sections {
		parts[i] = c.ChunkSection(section, maxTokens, overlapTokens)
	}

	chunks := c.Assemble(documentID, parts)
	c.logger.Debug("built chunks", "documentID", documentID, "sections", len(sections), "chunks", len(chunks))
	return chunks
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
