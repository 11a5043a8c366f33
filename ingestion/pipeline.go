package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/lexscope/docsearch/ai"
	"github.com/lexscope/docsearch/chunking"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
	"github.com/lexscope/docsearch/token"
	"github.com/panjf2000/ants/v2"
)

const (
	embedMaxAttempts = 3
	embedBaseDelay   = 500 * time.Millisecond
)

// Pipeline turns a document's extracted text into embedded, persisted
// chunks, tracking document status through the run.
type Pipeline struct {
	chunkRepository    storage.ChunkRepository
	documentRepository storage.DocumentRepository
	chunker            *chunking.Chunker
	embedder           ai.Embedder
	pool               *ants.Pool
	maxTokens          int
	overlapTokens      int
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent section chunking.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMaxTokens sets the token budget per chunk.
// Default is chunking.DefaultMaxTokens.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Pipeline) error {
		if maxTokens > 0 {
			p.maxTokens = maxTokens
		}
		return nil
	}
}

// WithOverlapTokens sets the context overlap carried between sub-chunks.
// Default is chunking.DefaultOverlapTokens.
func WithOverlapTokens(overlapTokens int) Option {
	return func(p *Pipeline) error {
		if overlapTokens >= 0 {
			p.overlapTokens = overlapTokens
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	documentRepository storage.DocumentRepository,
	provider ai.Provider,
	counter token.Counter,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if counter == nil {
		return nil, ErrCounterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunkRepository:    chunkRepository,
		documentRepository: documentRepository,
		embedder:           provider.Embedder(),
		pool:               pool,
		maxTokens:          chunking.DefaultMaxTokens,
		overlapTokens:      chunking.DefaultOverlapTokens,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	chunker, err := chunking.NewChunker(counter, chunking.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	p.chunker = chunker

	return p, nil
}

// IndexDocument chunks and embeds a document's extracted text, persists the
// result, and returns the persisted chunk records. The document transitions
// uploaded -> processing -> processed; any failure leaves it in the failed
// state and returns the cause.
//
// Indexing is synchronous: when IndexDocument returns the chunks are
// searchable.
func (p *Pipeline) IndexDocument(ctx context.Context, documentID core.ID, text string) ([]*core.Chunk, error) {
	if _, err := p.documentRepository.UpdateDocumentStatus(ctx, documentID, core.DocumentStatusProcessing); err != nil {
		return nil, err
	}

	chunks, err := p.buildChunks(documentID, text)
	if err == nil && len(chunks) == 0 {
		err = ErrEmptyDocument
	}
	if err == nil {
		err = p.embedChunks(ctx, chunks)
	}
	if err == nil {
		chunks, err = p.chunkRepository.AddChunks(ctx, chunks...)
	}

	if err != nil {
		p.logger.Error("document indexing failed", "documentID", documentID, "err", err)
		if _, statusErr := p.documentRepository.UpdateDocumentStatus(ctx, documentID, core.DocumentStatusFailed); statusErr != nil {
			p.logger.Error("failed to mark document as failed", "documentID", documentID, "err", statusErr)
		}
		return nil, err
	}

	if _, err := p.documentRepository.UpdateDocumentStatus(ctx, documentID, core.DocumentStatusProcessed); err != nil {
		return nil, err
	}

	p.logger.Info("document indexed", "documentID", documentID, "chunks", len(chunks))
	return chunks, nil
}

// ReindexDocument drops a document's existing chunks and indexes the given
// text from scratch.
func (p *Pipeline) ReindexDocument(ctx context.Context, documentID core.ID, text string) ([]*core.Chunk, error) {
	if err := p.chunkRepository.DeleteDocumentChunks(ctx, documentID); err != nil {
		return nil, err
	}
	return p.IndexDocument(ctx, documentID, text)
}

// RemoveDocument deletes a document record along with all of its chunks.
func (p *Pipeline) RemoveDocument(ctx context.Context, documentID core.ID) error {
	if err := p.chunkRepository.DeleteDocumentChunks(ctx, documentID); err != nil {
		return err
	}
	return p.documentRepository.DeleteDocument(ctx, documentID)
}

// buildChunks segments the text and chunks sections concurrently on the
// worker pool, then assembles ordered chunk records.
func (p *Pipeline) buildChunks(documentID core.ID, text string) ([]*core.Chunk, error) {
	sections := p.chunker.Segment(text)
	if len(sections) == 0 {
		return nil, nil
	}

	parts := make([]chunking.SectionChunks, len(sections))
	var wg sync.WaitGroup
	for i, section := range sections {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			parts[i] = p.chunker.ChunkSection(section, p.maxTokens, p.overlapTokens)
		}
		// Fall back to inline execution if the pool rejects the task, so a
		// released or saturated pool cannot stall indexing.
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return p.chunker.Assemble(documentID, parts), nil
}

// embedChunks fills in normalized vectors for every chunk, retrying
// transient embedder failures with backoff.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, embedMaxAttempts, embedBaseDelay)
	if err != nil {
		return fmt.Errorf("%w: %w", ai.ErrEmbeddingUnavailable, err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingCountMismatch, len(vectors), len(chunks))
	}

	for i, chunk := range chunks {
		chunk.Vector = NormalizeVector(vectors[i])
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
