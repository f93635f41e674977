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

// Package citegraph builds and serves the citation graph linking secondary
// instruments (orders, guidelines) to the regulation clauses they cite.
//
// The Builder is an offline batch job: it runs each document's title and
// leading text through the reference extraction service, validates the
// response (Act citations are discarded, compound references like
// "ข้อ 36 (2) (3)" are expanded into one entry per sub-reference), and merges
// the result into two JSON files:
//
//   - master_map.json: regulation -> clause -> [citing titles]
//   - source_check.json: title -> ["regulation : clause"], the reverse index
//
// Merging is always a union; existing entries are never overwritten. Both
// files are replaced atomically.
//
// The Linker is the query-time read side: given a regulation chunk it
// returns the titles citing that clause, normalizing the law name so every
// edition of a regulation resolves to the same graph key.
package citegraph
