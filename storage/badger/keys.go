package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/lexscope/docsearch/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix   = "docchk"
	chunkDocIndexPrefix = "docchki"
	documentPrefix      = "docrec"
	documentIDSeq       = "docrecseq"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkDocIndexKey generates a composite key for the document index.
// Format: prefix:documentID:chunkIndex
func makeChunkDocIndexKey(documentID core.ID, chunkIndex int) []byte {
	prefix := chunkDocIndexPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for documentID + 8 bytes for chunkIndex
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkDocIndexKey generates a partial key for scanning all
// chunks of a document in index order.
// Format: prefix:documentID
func makePartialChunkDocIndexKey(documentID core.ID) []byte {
	prefix := chunkDocIndexPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
