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


// Package chunking turns OCR-extracted document text into retrieval-sized
// chunks.
//
// The flow has two stages:
//
//   - Segmentation: an ordered table of boundary rules detects clauses,
//     articles, chapters, sections, paragraphs, uppercase headings and
//     numbered outline markers, and classifies each section from its
//     first line.
//   - Splitting: sections over the token budget are split on paragraph
//     boundaries with a token-bounded overlap carried across each split,
//     falling back to sentence granularity for oversized paragraphs.
//
// Chunking is pure, synchronous and deterministic. Independent sections
// can be chunked concurrently (ChunkSection) and reassembled in order
// (Assemble) before chunk indices are assigned.
package chunking
