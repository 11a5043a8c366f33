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


// Package search provides hybrid retrieval over document chunks.
//
// The Searcher runs two independent channels per query:
//   - Semantic search using vector embeddings under cosine distance
//   - Lexical search using term matching with stop-word filtering
//
// The channels are merged with Reciprocal Rank Fusion, so a chunk found by
// both channels outranks one found by either alone without either channel's
// raw scores needing to be comparable.
//
// A strict pass caps semantic distance; when a scope-filtered search finds
// nothing, a relaxed pass without the cap runs so narrowed searches degrade
// to "best available" rather than returning silence.
package search
