package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexscope/docsearch/ai"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
)

const (
	// DefaultTopN is the passage cap for the strict pass.
	DefaultTopN = 10
	// FallbackTopN is the tighter passage cap for the relaxed pass, which
	// surfaces weaker matches and should stay short.
	FallbackTopN = 5
	// DefaultMaxDistance is the strict-pass cosine distance cap. Chunks
	// further than this (similarity below 35%) are considered noise.
	DefaultMaxDistance = 0.65
)

// guidanceNoScopedContent is returned when an explicit document filter
// matched nothing even after relaxation.
const guidanceNoScopedContent = "Os documentos selecionados não contêm trechos relevantes para a consulta. " +
	"Tente reformular a pergunta ou remover o filtro de documentos."

// Searcher provides hybrid semantic and lexical retrieval over document
// chunks, fused with Reciprocal Rank Fusion.
type Searcher struct {
	chunkRepository    storage.ChunkRepository
	documentRepository storage.DocumentRepository
	embedder           ai.Embedder
	topN               int
	maxDistance        float32
	logger             *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTopN overrides the strict-pass passage cap.
func WithTopN(topN int) Option {
	return func(s *Searcher) error {
		if topN > 0 {
			s.topN = topN
		}
		return nil
	}
}

// WithMaxDistance overrides the strict-pass cosine distance cap.
func WithMaxDistance(maxDistance float32) Option {
	return func(s *Searcher) error {
		if maxDistance > 0 {
			s.maxDistance = maxDistance
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	chunkRepository storage.ChunkRepository,
	documentRepository storage.DocumentRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		chunkRepository:    chunkRepository,
		documentRepository: documentRepository,
		embedder:           provider.Embedder(),
		topN:               DefaultTopN,
		maxDistance:        DefaultMaxDistance,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a hybrid search for the caller within the given scope filter.
func (s *Searcher) Search(ctx context.Context, caller core.Caller, query string, filter ScopeFilter) (*Result, error) {
	return s.SearchWithMonitor(ctx, caller, query, filter, nil)
}

// SearchWithMonitor runs a hybrid search with monitoring callbacks at each
// stage. A nil monitor is allowed.
//
// The strict pass caps semantic matches at the configured distance; if it
// returns nothing and the caller gave an explicit scope filter, a relaxed
// pass without the distance cap runs so a narrowed search degrades to "best
// available" instead of silence. An unfiltered search never relaxes: finding
// nothing in the whole corpus means there is nothing to find.
func (s *Searcher) SearchWithMonitor(ctx context.Context, caller core.Caller, query string, filter ScopeFilter, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query, filter)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingUnavailable, err)
	}
	monitor.AfterQueryEmbedding(len(embedding))

	hits, err := s.runPass(ctx, caller, query, embedding, filter, s.maxDistance, s.topN, monitor)
	if err != nil {
		return nil, err
	}

	fallback := false
	if len(hits) == 0 && !filter.Empty() {
		// Relaxed pass: same scope, no distance cap, shorter list.
		monitor.FallbackTriggered()
		hits, err = s.runPass(ctx, caller, query, embedding, filter, 0, FallbackTopN, monitor)
		if err != nil {
			return nil, err
		}
		fallback = len(hits) > 0
	}

	result := &Result{
		Passages: s.buildPassages(ctx, hits),
		Fallback: fallback,
	}

	if len(result.Passages) == 0 && len(filter.DocumentIDs) > 0 {
		result.Guidance = guidanceNoScopedContent
	}

	monitor.Finish(result)
	return result, nil
}

// runPass executes both retrieval channels and fuses them.
func (s *Searcher) runPass(ctx context.Context, caller core.Caller, query string, embedding []float32, filter ScopeFilter, maxDistance float32, topN int, monitor SearchMonitor) ([]FusedHit, error) {
	sq := storage.SearchQuery{
		Caller:           caller,
		DocumentIDs:      filter.DocumentIDs,
		FilenameContains: filter.FilenameContains,
		DocumentType:     filter.DocumentType,
		MaxDistance:      maxDistance,
		Limit:            topN,
	}

	semantic, err := s.chunkRepository.SemanticSearch(ctx, embedding, sq)
	if err != nil {
		s.logger.Error("semantic search failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	monitor.AfterSemanticSearch(semantic)

	lexical, err := s.chunkRepository.LexicalSearch(ctx, query, sq)
	if err != nil {
		s.logger.Error("lexical search failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	monitor.AfterLexicalSearch(lexical)

	hits := fuse(semantic, lexical)
	if len(hits) > topN {
		hits = hits[:topN]
	}
	monitor.AfterFusion(hits)
	return hits, nil
}

// buildPassages decorates fused hits with document names. Lookup failures
// degrade to an empty name instead of failing the search.
func (s *Searcher) buildPassages(ctx context.Context, hits []FusedHit) []Passage {
	names := make(map[core.ID]string)
	passages := make([]Passage, 0, len(hits))

	for _, hit := range hits {
		name, ok := names[hit.Chunk.DocumentID]
		if !ok {
			doc, err := s.documentRepository.GetDocument(ctx, hit.Chunk.DocumentID)
			if err != nil {
				s.logger.Warn("failed to resolve document name", "documentID", hit.Chunk.DocumentID, "err", err)
			} else {
				name = doc.Filename
			}
			names[hit.Chunk.DocumentID] = name
		}

		similarity := float32(0)
		if hit.SemanticRank > 0 {
			similarity = (1 - hit.Distance) * 100
		}

		passages = append(passages, Passage{
			ChunkID:           hit.Chunk.Id,
			DocumentID:        hit.Chunk.DocumentID,
			DocumentName:      name,
			ChunkIndex:        hit.Chunk.ChunkIndex,
			SectionType:       hit.Chunk.SectionType,
			Content:           hit.Chunk.Content,
			Score:             hit.Score,
			SimilarityPercent: similarity,
		})
	}

	return passages
}
