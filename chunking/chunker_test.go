package chunking

import (
	"strings"
	"testing"

	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker(t *testing.T) *Chunker {
	t.Helper()
	chunker, err := NewChunker(token.NewSplitCounter())
	require.NoError(t, err)
	return chunker
}

func TestNewChunker(t *testing.T) {
	t.Run("nil counter", func(t *testing.T) {
		_, err := NewChunker(nil)
		assert.ErrorIs(t, err, ErrCounterRequired)
	})

	t.Run("empty rule table", func(t *testing.T) {
		_, err := NewChunker(token.NewSplitCounter(), WithRules(nil))
		assert.ErrorIs(t, err, ErrRulesRequired)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		chunker, err := NewChunker(token.NewSplitCounter(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, chunker)
	})
}

func TestBuildChunks_TwoClauses(t *testing.T) {
	chunker := newTestChunker(t)
	text := "CLÁUSULA 1ª - DO OBJETO\nTexto A\n\nCLÁUSULA 2ª - DO PRAZO\nTexto B"

	chunks := chunker.BuildChunks(42, text, 2000, 200)
	require.Len(t, chunks, 2)

	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
	assert.Equal(t, core.SectionTypeClause, chunks[0].SectionType)
	assert.Equal(t, core.SectionTypeClause, chunks[1].SectionType)
	assert.Equal(t, core.ID(42), chunks[0].DocumentID)
	assert.Positive(t, chunks[0].TokenCount)
	assert.Equal(t, "CLÁUSULA 1ª - DO OBJETO", chunks[0].Metadata[core.MetaSectionHeading])
}

func TestBuildChunks_EmptyText(t *testing.T) {
	chunker := newTestChunker(t)
	assert.Empty(t, chunker.BuildChunks(1, "", 2000, 200))
	assert.Empty(t, chunker.BuildChunks(1, "   \n\n  ", 2000, 200))
}

func TestBuildChunks_ContinuationPrefix(t *testing.T) {
	chunker := newTestChunker(t)

	var sb strings.Builder
	sb.WriteString("CLÁUSULA 1ª - DO OBJETO\n")
	for range 6 {
		sb.WriteString("um dois tres quatro cinco seis sete oito nove dez\n\n")
	}

	chunks := chunker.BuildChunks(7, sb.String(), 25, 10)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.False(t, strings.HasPrefix(chunks[0].Content, "[Continuação de:"))
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, core.SectionTypeClause, chunk.SectionType)
		if i > 0 {
			assert.True(t, strings.HasPrefix(chunk.Content, "[Continuação de: CLÁUSULA 1ª - DO OBJETO]"),
				"chunk %d should carry the continuation prefix", i)
		}
	}

	// Sub-chunk provenance metadata is present on split sections.
	assert.Equal(t, "0", chunks[0].Metadata[core.MetaSubChunk])
	assert.NotEmpty(t, chunks[0].Metadata[core.MetaTotalSubChunks])
}

func TestBuildChunks_LongHeadingSkipsPrefix(t *testing.T) {
	chunker := newTestChunker(t)

	heading := "CLÁUSULA " + strings.Repeat("LONGUÍSSIMA ", 12) // > 120 runes
	var sb strings.Builder
	sb.WriteString(heading + "\n")
	for range 6 {
		sb.WriteString("um dois tres quatro cinco seis sete oito nove dez\n\n")
	}

	chunks := chunker.BuildChunks(7, sb.String(), 25, 10)
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.False(t, strings.HasPrefix(chunk.Content, "[Continuação de:"))
	}
}

func TestBuildChunks_MetadataHeadingTruncated(t *testing.T) {
	chunker := newTestChunker(t)

	heading := "1. " + strings.Repeat("VIGÊNCIA ", 20)
	text := heading + "\ncorpo do texto"

	chunks := chunker.BuildChunks(7, text, 2000, 200)
	require.Len(t, chunks, 1)
	assert.LessOrEqual(t, len([]rune(chunks[0].Metadata[core.MetaSectionHeading])), 80)
}

func TestBuildChunks_TokenBound(t *testing.T) {
	chunker := newTestChunker(t)
	counter := token.NewSplitCounter()

	var sb strings.Builder
	sb.WriteString("CLÁUSULA 1ª - DO OBJETO\n")
	for range 20 {
		sb.WriteString("um dois tres quatro cinco seis sete oito nove dez\n\n")
	}

	const maxTokens = 30
	chunks := chunker.BuildChunks(7, sb.String(), maxTokens, 10)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		// The continuation prefix may nudge a sub-chunk slightly past the
		// budget; the body itself stays within it.
		body := strings.TrimPrefix(chunk.Content, "[Continuação de: CLÁUSULA 1ª - DO OBJETO]\n\n")
		assert.LessOrEqual(t, counter.Count(body), maxTokens)
		assert.Equal(t, counter.Count(chunk.Content), chunk.TokenCount)
	}
}

func TestBuildChunks_CoverageAndOrdering(t *testing.T) {
	chunker := newTestChunker(t)
	text := "Preâmbulo do contrato\n\n" +
		"CLÁUSULA 1ª - DO OBJETO\nTexto A\n\n" +
		"SEÇÃO 2\nTexto B\n\n" +
		"DAS OBRIGAÇÕES\nTexto C"

	chunks := chunker.BuildChunks(9, text, 2000, 200)
	require.Len(t, chunks, 4)

	// Strictly increasing zero-based indices.
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
	}

	// Concatenated contents preserve the original section ordering.
	joined := strings.Join([]string{chunks[0].Content, chunks[1].Content, chunks[2].Content, chunks[3].Content}, "\n")
	for _, marker := range []string{"Preâmbulo", "Texto A", "Texto B", "Texto C"} {
		assert.Contains(t, joined, marker)
	}
	assert.Less(t, strings.Index(joined, "Texto A"), strings.Index(joined, "Texto B"))
	assert.Less(t, strings.Index(joined, "Texto B"), strings.Index(joined, "Texto C"))
}

func TestBuildChunks_Deterministic(t *testing.T) {
	chunker := newTestChunker(t)
	var sb strings.Builder
	sb.WriteString("CLÁUSULA 1ª - DO OBJETO\n")
	for range 10 {
		sb.WriteString("um dois tres quatro cinco seis sete oito nove dez\n\n")
	}
	text := sb.String()

	first := chunker.BuildChunks(3, text, 25, 10)
	for range 5 {
		again := chunker.BuildChunks(3, text, 25, 10)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Content, again[i].Content)
			assert.Equal(t, first[i].ChunkIndex, again[i].ChunkIndex)
			assert.Equal(t, first[i].TokenCount, again[i].TokenCount)
		}
	}
}
