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

// Package partition implements the file-based partition store.
//
// Each partition is one directory holding two files:
//
//   - vectors.bin: the flat vector index in MUS binary format (dimension,
//     row count, then row-major float32 payload)
//   - records.json: the chunk record list, index-aligned with the vector rows
//
// All mutation goes through Store.Update, which serializes against other
// transactions on the same partition path via a process-wide lock registry,
// loads current state, applies the caller's changes in memory, and persists
// both files on success. Record persistence writes a temporary file and
// renames it over the target, so a crash mid-write never leaves a corrupt
// record list. On any error the in-memory changes are dropped and the
// on-disk files stay as they were.
//
// Transactions on different partition paths do not block each other.
package partition
