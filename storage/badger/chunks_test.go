package badger

import (
	"context"
	"testing"

	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.ChunkRepository, storage.DocumentRepository) {
	t.Helper()

	chunkRepo, docRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	return chunkRepo, docRepo
}

func testChunk(documentID core.ID, index int, content string) *core.Chunk {
	return &core.Chunk{
		DocumentID: documentID,
		ChunkIndex: index,
		Content:    content,
		TokenCount: 10,
		Vector:     []float32{1, 0, 0},
	}
}

func TestAddChunks_AssignsIDsAndTimestamps(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)
	ctx := context.Background()

	chunks, err := chunkRepo.AddChunks(ctx,
		testChunk(1, 0, "primeiro trecho"),
		testChunk(1, 1, "segundo trecho"),
	)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	for _, c := range chunks {
		assert.NotZero(t, c.Id)
		assert.False(t, c.CreatedAt.IsZero())
	}
	assert.NotEqual(t, chunks[0].Id, chunks[1].Id)

	// Content-derived IDs are stable for the same (document, index, content).
	assert.Equal(t, core.ChunkID(1, 0, "primeiro trecho"), chunks[0].Id)
}

func TestAddChunks_RejectsInvalid(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)

	_, err := chunkRepo.AddChunks(context.Background(), &core.Chunk{
		DocumentID: 1,
		ChunkIndex: 0,
		Content:    "",
		TokenCount: 1,
	})
	assert.ErrorIs(t, err, core.ErrEmptyContent)
}

func TestGetChunk(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := chunkRepo.AddChunks(ctx, testChunk(1, 0, "conteúdo"))
	require.NoError(t, err)

	got, err := chunkRepo.GetChunk(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, added[0].Content, got.Content)

	_, err = chunkRepo.GetChunk(ctx, core.ID(999999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetChunks_SkipsMissing(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := chunkRepo.AddChunks(ctx, testChunk(1, 0, "um"), testChunk(1, 1, "dois"))
	require.NoError(t, err)

	got, err := chunkRepo.GetChunks(ctx, added[0].Id, core.ID(999999), added[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetDocumentChunks_OrderedByIndex(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)
	ctx := context.Background()

	// Insert out of order; the document index key sorts them.
	_, err := chunkRepo.AddChunks(ctx,
		testChunk(5, 2, "terceiro"),
		testChunk(5, 0, "primeiro"),
		testChunk(5, 1, "segundo"),
		testChunk(6, 0, "outro documento"),
	)
	require.NoError(t, err)

	got, err := chunkRepo.GetDocumentChunks(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"primeiro", "segundo", "terceiro"},
		[]string{got[0].Content, got[1].Content, got[2].Content})
}

func TestDeleteDocumentChunks(t *testing.T) {
	chunkRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := chunkRepo.AddChunks(ctx,
		testChunk(7, 0, "apagar"),
		testChunk(7, 1, "apagar também"),
		testChunk(8, 0, "manter"),
	)
	require.NoError(t, err)

	require.NoError(t, chunkRepo.DeleteDocumentChunks(ctx, 7))

	remaining, err := chunkRepo.GetDocumentChunks(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = chunkRepo.GetChunk(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	kept, err := chunkRepo.GetDocumentChunks(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Unknown document is not an error.
	assert.NoError(t, chunkRepo.DeleteDocumentChunks(ctx, 999))
}
