package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs come from database sequences; chunk IDs are content-based.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID generates a deterministic ID for a chunk from its document,
// position and content. Re-chunking identical text yields identical IDs.
func ChunkID(documentID ID, chunkIndex int, content string) ID {
	return IDFromContent(fmt.Sprintf("%d/%d/%s", documentID, chunkIndex, content))
}

// DocumentStatus tracks a document through its processing lifecycle.
// Only chunks of processed documents are retrievable.
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "uploaded"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// SectionType classifies the structural role of a section within a document.
// An empty SectionType means classification could not run.
type SectionType string

const (
	SectionTypeClause    SectionType = "clause"
	SectionTypeArticle   SectionType = "article"
	SectionTypeChapter   SectionType = "chapter"
	SectionTypeSection   SectionType = "section"
	SectionTypeParagraph SectionType = "paragraph"
	SectionTypeGeneral   SectionType = "general"
)

// Document represents an ingested source document.
// Text extraction happens upstream; docsearch stores only the metadata
// needed for visibility decisions and result decoration.
type Document struct {
	Id        ID
	OwnerID   ID
	Filename  string
	Type      string // free-form, e.g. "contrato", "relatorio"
	Status    DocumentStatus
	PageCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Section is a contiguous text span between two detected structural
// boundaries. Sections are ephemeral: they exist only during chunking
// and are never persisted.
type Section struct {
	Content string
	Type    SectionType
	Heading string // first line of the section
}

// Metadata keys attached to chunks for provenance tracking.
const (
	MetaSectionHeading = "section_heading"  // originating section heading, truncated to 80 chars
	MetaSubChunk       = "sub_chunk"        // zero-based index among the section's sub-chunks
	MetaTotalSubChunks = "total_sub_chunks" // sub-chunk count for the section
)

// Chunk is a retrieval-sized passage of document text.
// Chunks are created once per document processing run, never mutated,
// and destroyed en masse when the document is deleted or reprocessed.
type Chunk struct {
	Id          ID
	DocumentID  ID
	ChunkIndex  int // zero-based, strictly increasing per document
	Content     string
	SectionType SectionType
	TokenCount  int
	Vector      []float32 // embedding, populated by the ingestion pipeline
	Metadata    map[string]string
	CreatedAt   time.Time
}

// Caller identifies who is asking for retrieval.
// Privileged callers are exempt from ownership-based visibility restriction.
type Caller struct {
	Id         ID
	Privileged bool
}

// SemanticMatch is a chunk matched by the vector channel.
// Distance is cosine distance: lower is more similar.
type SemanticMatch struct {
	Chunk    *Chunk
	Distance float32
}

// LexicalMatch is a chunk matched by the full-text channel.
// Relevance is a text relevance score: higher is better.
type LexicalMatch struct {
	Chunk     *Chunk
	Relevance float32
}
