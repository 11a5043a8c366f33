package badger

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
)

// SemanticSearch finds chunks whose vectors are nearest to the query vector
// under cosine distance, within the scope of query.
func (r *ChunkRepository) SemanticSearch(ctx context.Context, vector []float32, query storage.SearchQuery) ([]*core.SemanticMatch, error) {
	var results []*core.SemanticMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		visible, err := visibleDocuments(tx, query)
		if err != nil {
			return err
		}
		if len(visible) == 0 {
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			}); err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			if _, ok := visible[chunk.DocumentID]; !ok {
				continue
			}

			distance := cosineDistance(vector, chunk.Vector)
			if query.MaxDistance > 0 && distance > query.MaxDistance {
				continue
			}

			results = append(results, &core.SemanticMatch{
				Chunk:    chunk,
				Distance: distance,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Nearest first; deterministic order for equal distances.
	slices.SortFunc(results, func(a, b *core.SemanticMatch) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return compareChunkPosition(a.Chunk, b.Chunk)
	})

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

// cosineDistance calculates 1 - cosine similarity of two vectors.
// Mismatched lengths compare over the shorter prefix. A zero-norm vector
// yields the maximum distance of 1.
func cosineDistance(a, b []float32) float32 {
	minLen := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return float32(1 - similarity)
}

func compareChunkPosition(a, b *core.Chunk) int {
	if a.DocumentID != b.DocumentID {
		if a.DocumentID < b.DocumentID {
			return -1
		}
		return 1
	}
	if a.ChunkIndex != b.ChunkIndex {
		return a.ChunkIndex - b.ChunkIndex
	}
	return 0
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
