// Copyright 2025 Siam Juris Systems
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

// Package search provides hybrid retrieval over the legal document partitions.
//
// The Searcher type implements a multi-stage algorithm:
//
//   - Dense path: the query is embedded and scored against the partition's
//     vector index by inner product
//   - Lexical path: query tokens (plus best-effort extracted keywords) are
//     scored with BM25 over the partition's record texts
//   - Reciprocal Rank Fusion combines both rankings
//   - A temporal filter keeps only records whose validity window contains
//     the reference date, walking the fused order until k matches are kept
//   - In the cross-partition "general" mode, fused scores are multiplied by
//     per-class hierarchy factors encoding legal precedence
//
// Both retrieval paths run concurrently; if one fails the query degrades to
// the other. Regulation results are augmented with the secondary documents
// citing their clause, resolved through the citation graph.
package search
