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

// Package storage defines the persistence interfaces of ClauseIndex.
//
// Two backends implement them:
//
//   - storage/partition: file-based vector index plus record list, one
//     directory per partition, mutated only through scoped transactions
//   - storage/badger: BadgerDB-backed document metadata repository tracking
//     version lineages
//
// The interfaces keep the ingestion and search layers independent of the
// concrete backends, mirroring how the ai package isolates model providers.
package storage
