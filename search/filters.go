package search

import (
	"strconv"
	"strings"

	"github.com/lexscope/docsearch/core"
)

// ScopeFilter narrows a search to a subset of the caller's visible
// documents. The zero value means "search everything visible".
type ScopeFilter struct {
	// DocumentIDs restricts the search to the listed documents.
	DocumentIDs []core.ID

	// FilenameContains restricts the search to documents whose filename
	// contains the substring, case-insensitively.
	FilenameContains string

	// DocumentType restricts the search to documents of the given type.
	DocumentType string
}

// Empty reports whether the filter imposes no constraint.
func (f ScopeFilter) Empty() bool {
	return len(f.DocumentIDs) == 0 && f.FilenameContains == "" && f.DocumentType == ""
}

// ParseDocumentIDs parses a comma-separated list of document IDs as supplied
// by callers. Malformed entries are dropped rather than failing the whole
// search; the dropped raw tokens are returned so the caller can report them.
func ParseDocumentIDs(raw string) (ids []core.ID, dropped []string) {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || n == 0 {
			dropped = append(dropped, part)
			continue
		}
		ids = append(ids, core.ID(n))
	}
	return ids, dropped
}
