// Package ingestion orchestrates document indexing: it segments extracted
// text into sections, chunks them under the token budget on a worker pool,
// embeds the chunk contents in batches, and persists the result.
//
// Document status is the ingestion contract with search: only documents that
// finish indexing reach the processed state, and only processed documents
// are retrievable. A failed run leaves the document in the failed state with
// no partial chunks visible.
package ingestion
