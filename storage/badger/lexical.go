package badger

import (
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/storage"
)

// Stop words excluded from lexical matching. Contracts in the corpus are
// mostly Portuguese, queries often mix English.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
	"o": true, "os": true, "um": true, "uma": true, "de": true,
	"da": true, "do": true, "das": true, "dos": true, "e": true, "em": true,
	"no": true, "na": true, "nos": true, "nas": true, "que": true, "para": true,
	"por": true, "com": true, "ao": true, "aos": true, "se": true, "ser": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}§º°"))

		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// LexicalSearch finds chunks whose text matches terms of queryText, within
// the scope of query. Relevance rewards term coverage first and raw
// frequency second; chunks matching no term are excluded entirely.
func (r *ChunkRepository) LexicalSearch(ctx context.Context, queryText string, query storage.SearchQuery) ([]*core.LexicalMatch, error) {
	terms := tokenizeAndFilter(queryText)
	if len(terms) == 0 {
		return nil, nil
	}
	termSet := make(map[string]bool, len(terms))
	for _, t := range terms {
		termSet[t] = true
	}

	var results []*core.LexicalMatch

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
			if chunk == nil {
				continue
			}
			if _, ok := visible[chunk.DocumentID]; !ok {
				continue
			}

			relevance := scoreChunk(chunk.Content, termSet)
			if relevance <= 0 {
				continue
			}

			results = append(results, &core.LexicalMatch{
				Chunk:     chunk,
				Relevance: relevance,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Most relevant first; deterministic order for equal scores.
	slices.SortFunc(results, func(a, b *core.LexicalMatch) int {
		if a.Relevance > b.Relevance {
			return -1
		}
		if a.Relevance < b.Relevance {
			return 1
		}
		return compareChunkPosition(a.Chunk, b.Chunk)
	})

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

// scoreChunk computes term-frequency relevance of a chunk against the query
// terms. Coverage (distinct terms matched) dominates, total frequency breaks
// coverage ties. Returns 0 when no term matches.
func scoreChunk(content string, termSet map[string]bool) float32 {
	words := tokenizeAndFilter(content)
	if len(words) == 0 {
		return 0
	}

	matchedTerms := make(map[string]int, len(termSet))
	totalHits := 0
	for _, w := range words {
		if termSet[w] {
			matchedTerms[w]++
			totalHits++
		}
	}
	if totalHits == 0 {
		return 0
	}

	coverage := float32(len(matchedTerms)) / float32(len(termSet))
	frequency := float32(totalHits) / float32(len(words))
	return coverage * (1 + frequency)
}
