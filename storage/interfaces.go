package storage

import (
	"context"

	"github.com/lexscope/docsearch/core"
)

// SearchQuery carries the caller identity and scope constraints for chunk
// retrieval. The zero value of every filter field means "no constraint".
type SearchQuery struct {
	// Caller identifies who is searching. Access policy is applied inside the
	// repository: non-privileged callers only see chunks of processed
	// documents they own.
	Caller core.Caller

	// DocumentIDs restricts results to chunks of the listed documents.
	// Empty means all visible documents.
	DocumentIDs []core.ID

	// FilenameContains restricts results to documents whose filename contains
	// the given substring (case-insensitive). Empty means no constraint.
	FilenameContains string

	// DocumentType restricts results to documents whose type contains the
	// given substring (case-insensitive). Empty means no constraint.
	DocumentType string

	// MaxDistance caps the cosine distance for semantic matches.
	// Values <= 0 disable the cap. Ignored by lexical search.
	MaxDistance float32

	// Limit caps the number of returned matches. Values <= 0 mean no cap.
	Limit int
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing document chunks and
// running retrieval over them.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// Chunks with Id=0 get a content-derived ID from (document, index, text).
	// Sets CreatedAt if not already set and validates each chunk.
	// Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetDocumentChunks retrieves all chunks of a document ordered by
	// ChunkIndex ascending.
	GetDocumentChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// DeleteDocumentChunks removes every chunk of a document.
	// Deleting chunks of an unknown document is not an error.
	DeleteDocumentChunks(ctx context.Context, documentID core.ID) error

	// SemanticSearch finds chunks whose vectors are nearest to the query
	// vector under cosine distance, within the scope of query.
	// Results are ordered by distance ascending.
	SemanticSearch(ctx context.Context, vector []float32, query SearchQuery) ([]*core.SemanticMatch, error)

	// LexicalSearch finds chunks whose text matches terms of queryText,
	// within the scope of query. Chunks matching no term are excluded.
	// Results are ordered by relevance descending.
	LexicalSearch(ctx context.Context, queryText string, query SearchQuery) ([]*core.LexicalMatch, error)
}

// DocumentRepository provides operations for managing document records.
type DocumentRepository interface {
	Repository

	// AddDocument adds a document to storage.
	// Documents with Id=0 get a new ID from sequence.
	// Sets CreatedAt and UpdatedAt timestamps.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves documents visible to the caller, ordered by ID.
	// Privileged callers see all documents regardless of status; other
	// callers see only their own (in any status, so owners can watch
	// processing progress).
	ListDocuments(ctx context.Context, caller core.Caller) ([]*core.Document, error)

	// UpdateDocumentStatus transitions a document to the given status and
	// bumps UpdatedAt. Returns ErrNotFound if the document doesn't exist.
	UpdateDocumentStatus(ctx context.Context, id core.ID, status core.DocumentStatus) (*core.Document, error)

	// DeleteDocument removes a document record.
	// Returns ErrNotFound if the document doesn't exist. Chunk cleanup is
	// the caller's responsibility via ChunkRepository.DeleteDocumentChunks.
	DeleteDocument(ctx context.Context, id core.ID) error
}
