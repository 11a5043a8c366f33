// Copyright 2026 Lexscope Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package scope holds the access policy deciding which documents a caller
// may see. The policy is a pure predicate with no I/O; both retrieval
// channels apply it before ranking, never after fusion, so invisible
// chunks cannot leak rank information through score shape.
package scope

import "github.com/lexscope/docsearch/core"

// Visible reports whether a document's chunks may be returned to caller.
// A document is visible iff it finished processing and the caller either
// is privileged or owns it.
func Visible(status core.DocumentStatus, ownerID core.ID, caller core.Caller) bool {
	if status != core.DocumentStatusProcessed {
		return false
	}
	return caller.Privileged || caller.Id == ownerID
}

// VisibleDocument is a convenience wrapper over Visible for a full record.
func VisibleDocument(doc *core.Document, caller core.Caller) bool {
	if doc == nil {
		return false
	}
	return Visible(doc.Status, doc.OwnerID, caller)
}
