package docsearch

import (
	"context"
	"testing"

	"github.com/lexscope/docsearch/ai/mock"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/search"
	"github.com/lexscope/docsearch/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase("",
		WithInMemory(),
		WithProvider(mock.NewMockProvider()),
		WithTokenCounter(token.NewSplitCounter()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestDatabase_IndexAndSearch(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	caller := core.Caller{Id: 10}

	doc, err := db.DocumentRepository().AddDocument(ctx, &core.Document{
		OwnerID:  caller.Id,
		Filename: "contrato-locacao.pdf",
		Type:     "contract",
	})
	require.NoError(t, err)

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	text := "CLÁUSULA PRIMEIRA - DO PRAZO\n\nO prazo de locação é de trinta meses.\n\n" +
		"CLÁUSULA SEGUNDA - DA MULTA\n\nA multa por rescisão antecipada é de três aluguéis."
	indexed, err := pipeline.IndexDocument(ctx, doc.Id, text)
	require.NoError(t, err)
	require.NotEmpty(t, indexed)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	result, err := searcher.Search(ctx, caller, "prazo de locação", search.ScopeFilter{})
	require.NoError(t, err)

	// The mock embedder hashes text, so semantic distances are arbitrary;
	// the lexical channel still guarantees the prazo clause surfaces, with
	// fallback possibly engaged if the strict distance cap filtered
	// everything semantic.
	require.NotEmpty(t, result.Passages)
	assert.Equal(t, "contrato-locacao.pdf", result.Passages[0].DocumentName)

	found := false
	for _, p := range result.Passages {
		if p.ChunkIndex == 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDatabase_RepositoriesShareBackend(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	doc, err := db.DocumentRepository().AddDocument(ctx, &core.Document{
		OwnerID:  1,
		Filename: "doc.pdf",
		Type:     "contract",
	})
	require.NoError(t, err)

	chunks, err := db.ChunkRepository().AddChunks(ctx, &core.Chunk{
		DocumentID: doc.Id,
		ChunkIndex: 0,
		Content:    "conteúdo",
		TokenCount: 1,
		Vector:     []float32{1},
	})
	require.NoError(t, err)
	assert.NotZero(t, chunks[0].Id)
}
