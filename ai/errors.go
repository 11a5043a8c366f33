package ai

import "errors"

// ErrEmbeddingUnavailable indicates the embedding collaborator failed or is
// not configured. It is fatal to the current operation: neither indexing nor
// retrieval proceeds partially without a query or content embedding.
var ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
