package search

import "github.com/lexscope/docsearch/core"

// Passage is one retrieved chunk prepared for presentation.
type Passage struct {
	ChunkID      core.ID
	DocumentID   core.ID
	DocumentName string
	ChunkIndex   int
	SectionType  core.SectionType
	Content      string
	// Score is the fused RRF score the passage ranked by.
	Score float64
	// SimilarityPercent is (1 - cosine distance) * 100 from the semantic
	// channel, or 0 when the passage was found lexically only.
	SimilarityPercent float32
}

// Result is the outcome of one search. A zero-passage Result is a normal
// outcome, not an error.
type Result struct {
	Passages []Passage

	// Fallback is true when the strict pass found nothing inside the scope
	// filter and the relaxed pass produced these passages instead.
	Fallback bool

	// Guidance carries a human-readable hint when the search found nothing
	// useful, e.g. when the requested documents had no matching content.
	Guidance string
}
