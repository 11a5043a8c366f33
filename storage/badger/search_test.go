package badger

import (
	"context"
	"testing"

	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSearchCorpus creates two owners with one processed document each plus
// one unprocessed document, and returns the processed document IDs.
func seedSearchCorpus(t *testing.T, chunkRepo storage.ChunkRepository, docRepo storage.DocumentRepository) (mine, theirs core.ID) {
	t.Helper()
	ctx := context.Background()

	docMine, err := docRepo.AddDocument(ctx, testDocument(10, "contrato-locacao.pdf"))
	require.NoError(t, err)
	_, err = docRepo.UpdateDocumentStatus(ctx, docMine.Id, core.DocumentStatusProcessed)
	require.NoError(t, err)

	docTheirs, err := docRepo.AddDocument(ctx, testDocument(20, "contrato-servicos.pdf"))
	require.NoError(t, err)
	_, err = docRepo.UpdateDocumentStatus(ctx, docTheirs.Id, core.DocumentStatusProcessed)
	require.NoError(t, err)

	docPending, err := docRepo.AddDocument(ctx, testDocument(10, "pendente.pdf"))
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentID: docMine.Id, ChunkIndex: 0, Content: "prazo de locação de trinta dias", TokenCount: 6, Vector: []float32{1, 0, 0}},
		&core.Chunk{DocumentID: docMine.Id, ChunkIndex: 1, Content: "multa por atraso no pagamento", TokenCount: 5, Vector: []float32{0.9, 0.1, 0}},
		&core.Chunk{DocumentID: docTheirs.Id, ChunkIndex: 0, Content: "prazo de vigência indeterminado", TokenCount: 4, Vector: []float32{1, 0, 0}},
		&core.Chunk{DocumentID: docPending.Id, ChunkIndex: 0, Content: "prazo ainda em processamento", TokenCount: 4, Vector: []float32{1, 0, 0}},
	)
	require.NoError(t, err)

	return docMine.Id, docTheirs.Id
}

func TestSemanticSearch_ScopedToCaller(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	mine, _ := seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: core.Caller{Id: 10}})
	require.NoError(t, err)

	// Only the caller's processed document is searched. The pending one and
	// the other owner's are invisible even with identical vectors.
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, mine, m.Chunk.DocumentID)
	}

	// Nearest first.
	assert.Equal(t, 0, matches[0].Chunk.ChunkIndex)
	assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)
}

func TestSemanticSearch_PrivilegedSeesAllProcessed(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: core.Caller{Id: 1, Privileged: true}})
	require.NoError(t, err)

	// Both processed documents, never the pending one.
	assert.Len(t, matches, 3)
}

func TestSemanticSearch_MaxDistance(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: core.Caller{Id: 10}, MaxDistance: 0.001})
	require.NoError(t, err)

	// Only the exact-direction vector survives the cap.
	require.Len(t, matches, 1)
	assert.InDelta(t, 0, matches[0].Distance, 0.001)
}

func TestSemanticSearch_DocumentIDFilter(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	_, theirs := seedSearchCorpus(t, chunkRepo, docRepo)

	// Filtering to a document the caller cannot see yields nothing.
	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: core.Caller{Id: 10}, DocumentIDs: []core.ID{theirs}})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSemanticSearch_FilenameAndTypeFilters(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	seedSearchCorpus(t, chunkRepo, docRepo)
	caller := core.Caller{Id: 1, Privileged: true}

	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: caller, FilenameContains: "SERVICOS"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "prazo de vigência indeterminado", matches[0].Chunk.Content)

	// Type filtering is substring-based: "contra" selects "contract" docs.
	matches, err = chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: caller, DocumentType: "contra"})
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	matches, err = chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: caller, DocumentType: "petition"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSemanticSearch_Limit(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.SemanticSearch(context.Background(), []float32{1, 0, 0},
		storage.SearchQuery{Caller: core.Caller{Id: 1, Privileged: true}, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestLexicalSearch_TermMatchingAndScope(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	mine, _ := seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.LexicalSearch(context.Background(), "prazo locação",
		storage.SearchQuery{Caller: core.Caller{Id: 10}})
	require.NoError(t, err)

	// "multa por atraso" matches no term and is excluded. The pending and
	// foreign documents are out of scope.
	require.Len(t, matches, 1)
	assert.Equal(t, mine, matches[0].Chunk.DocumentID)
	assert.Equal(t, 0, matches[0].Chunk.ChunkIndex)
	assert.Greater(t, matches[0].Relevance, float32(0))
}

func TestLexicalSearch_CoverageBeatsFrequency(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	ctx := context.Background()

	doc, err := docRepo.AddDocument(ctx, testDocument(10, "doc.pdf"))
	require.NoError(t, err)
	_, err = docRepo.UpdateDocumentStatus(ctx, doc.Id, core.DocumentStatusProcessed)
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentID: doc.Id, ChunkIndex: 0, Content: "rescisão rescisão rescisão rescisão", TokenCount: 4, Vector: []float32{1}},
		&core.Chunk{DocumentID: doc.Id, ChunkIndex: 1, Content: "rescisão contratual antecipada", TokenCount: 3, Vector: []float32{1}},
	)
	require.NoError(t, err)

	matches, err := chunkRepo.LexicalSearch(ctx, "rescisão contratual",
		storage.SearchQuery{Caller: core.Caller{Id: 10}})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// The chunk matching both terms outranks the one repeating a single term.
	assert.Equal(t, 1, matches[0].Chunk.ChunkIndex)
}

func TestTokenizeAndFilter(t *testing.T) {
	// Portuguese and English stop words drop out; "do" is the Portuguese
	// preposition and must be filtered exactly once.
	assert.Equal(t, []string{"prazo", "contrato"}, tokenizeAndFilter("o prazo do contrato"))
	assert.Equal(t, []string{"termination", "clause"}, tokenizeAndFilter("the termination clause"))
	assert.Equal(t, []string{"multa", "2"}, tokenizeAndFilter("(multa), §2º"))
}

func TestLexicalSearch_StopWordOnlyQuery(t *testing.T) {
	chunkRepo, docRepo := newTestRepos(t)
	seedSearchCorpus(t, chunkRepo, docRepo)

	matches, err := chunkRepo.LexicalSearch(context.Background(), "de o que para",
		storage.SearchQuery{Caller: core.Caller{Id: 10}})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.InDelta(t, 1, cosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-6)
}
