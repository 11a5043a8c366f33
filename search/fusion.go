package search

import (
	"slices"

	"github.com/lexscope/docsearch/core"
)

// rrfK is the standard Reciprocal Rank Fusion smoothing constant. Larger
// values flatten the gap between top ranks.
const rrfK = 60

// FusedHit is one chunk scored across both retrieval channels.
// Ranks are 1-based; 0 means the chunk was absent from that channel and
// contributed nothing to the score.
type FusedHit struct {
	Chunk        *core.Chunk
	Score        float64
	SemanticRank int
	LexicalRank  int
	// Distance is the cosine distance from the semantic channel.
	// Only meaningful when SemanticRank > 0.
	Distance float32
}

// fuse merges the two ranked channel outputs with Reciprocal Rank Fusion:
// each hit scores sum(1/(k+rank)) over the channels that returned it.
// Ties break toward the better semantic rank, then the better lexical rank,
// then the lower chunk ID, so output order is fully deterministic.
func fuse(semantic []*core.SemanticMatch, lexical []*core.LexicalMatch) []FusedHit {
	hits := make(map[core.ID]*FusedHit, len(semantic)+len(lexical))

	for i, match := range semantic {
		hits[match.Chunk.Id] = &FusedHit{
			Chunk:        match.Chunk,
			SemanticRank: i + 1,
			Distance:     match.Distance,
		}
	}

	for i, match := range lexical {
		if hit, ok := hits[match.Chunk.Id]; ok {
			hit.LexicalRank = i + 1
		} else {
			hits[match.Chunk.Id] = &FusedHit{
				Chunk:       match.Chunk,
				LexicalRank: i + 1,
			}
		}
	}

	fused := make([]FusedHit, 0, len(hits))
	for _, hit := range hits {
		if hit.SemanticRank > 0 {
			hit.Score += 1.0 / float64(rrfK+hit.SemanticRank)
		}
		if hit.LexicalRank > 0 {
			hit.Score += 1.0 / float64(rrfK+hit.LexicalRank)
		}
		fused = append(fused, *hit)
	}

	slices.SortFunc(fused, func(a, b FusedHit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if c := compareRanks(a.SemanticRank, b.SemanticRank); c != 0 {
			return c
		}
		if c := compareRanks(a.LexicalRank, b.LexicalRank); c != 0 {
			return c
		}
		if a.Chunk.Id < b.Chunk.Id {
			return -1
		}
		if a.Chunk.Id > b.Chunk.Id {
			return 1
		}
		return 0
	})

	return fused
}

// compareRanks orders 1-based ranks ascending, with absent (0) ranks last.
func compareRanks(a, b int) int {
	if a == b {
		return 0
	}
	if a == 0 {
		return 1
	}
	if b == 0 {
		return -1
	}
	return a - b
}
