package search

import (
	"testing"

	"github.com/lexscope/docsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkWithID(id core.ID) *core.Chunk {
	return &core.Chunk{Id: id, DocumentID: 1, Content: "conteúdo"}
}

func TestFuse_BothChannelsBeatSingleChannel(t *testing.T) {
	// Chunk 100 is rank 1 semantically only. Chunk 200 is rank 2 in both
	// channels: 1/62 + 1/62 > 1/61, so agreement wins.
	semantic := []*core.SemanticMatch{
		{Chunk: chunkWithID(100), Distance: 0.10},
		{Chunk: chunkWithID(200), Distance: 0.20},
	}
	lexical := []*core.LexicalMatch{
		{Chunk: chunkWithID(300), Relevance: 2.0},
		{Chunk: chunkWithID(200), Relevance: 1.0},
	}

	hits := fuse(semantic, lexical)
	require.Len(t, hits, 3)

	assert.Equal(t, core.ID(200), hits[0].Chunk.Id)
	assert.Equal(t, 2, hits[0].SemanticRank)
	assert.Equal(t, 2, hits[0].LexicalRank)
	assert.InDelta(t, 1.0/62+1.0/62, hits[0].Score, 1e-9)

	// Equal single-channel ranks tie; semantic presence breaks the tie.
	assert.Equal(t, core.ID(100), hits[1].Chunk.Id)
	assert.Equal(t, core.ID(300), hits[2].Chunk.Id)
	assert.InDelta(t, 1.0/61, hits[1].Score, 1e-9)
}

func TestFuse_AbsentChannelContributesNothing(t *testing.T) {
	semantic := []*core.SemanticMatch{
		{Chunk: chunkWithID(100), Distance: 0.10},
	}

	hits := fuse(semantic, nil)
	require.Len(t, hits, 1)

	assert.Equal(t, 1, hits[0].SemanticRank)
	assert.Equal(t, 0, hits[0].LexicalRank)
	assert.InDelta(t, 1.0/61, hits[0].Score, 1e-9)

	hits = fuse(nil, []*core.LexicalMatch{{Chunk: chunkWithID(200), Relevance: 1}})
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].SemanticRank)
	assert.Equal(t, 1, hits[0].LexicalRank)
}

func TestFuse_Empty(t *testing.T) {
	assert.Empty(t, fuse(nil, nil))
}

func TestFuse_DeterministicTieBreak(t *testing.T) {
	// Two chunks with identical lexical-only ranks cannot occur within one
	// channel, so force a tie across chunk IDs via equal scores.
	lexical := []*core.LexicalMatch{
		{Chunk: chunkWithID(500), Relevance: 1},
	}
	semantic := []*core.SemanticMatch{
		{Chunk: chunkWithID(400), Distance: 0.3},
	}

	// Rank 1 each in separate channels: equal score, semantic-ranked chunk
	// comes first.
	hits := fuse(semantic, lexical)
	require.Len(t, hits, 2)
	assert.Equal(t, core.ID(400), hits[0].Chunk.Id)
	assert.Equal(t, core.ID(500), hits[1].Chunk.Id)
}

func TestFuse_PreservesDistance(t *testing.T) {
	semantic := []*core.SemanticMatch{
		{Chunk: chunkWithID(100), Distance: 0.25},
	}

	hits := fuse(semantic, nil)
	require.Len(t, hits, 1)
	assert.Equal(t, float32(0.25), hits[0].Distance)
}
