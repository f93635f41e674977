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

// Package chunker splits Thai legal documents into indexable chunk records.
//
// Regulations (ระเบียบ) follow a numbered-clause convention: each clause
// starts on its own line with a "ข้อ N" marker, grouped under chapter (หมวด)
// and part (ส่วนที่) headings. The clause chunker walks the document line by
// line, buffering each clause into its own record and stamping the current
// chapter and part onto it. Clauses that exceed the size threshold are
// sub-split with a recursive character splitter; sub-pieces carry a _pN id
// suffix and an IsSplit flag so the citation layer can map them back to the
// base clause.
//
// Orders, guidelines, and standards lack the clause convention and are split
// purely by size.
//
// Both paths share header and footer handling: the first non-empty line is
// the law name (used when no title is supplied), and trailing attachment
// references (*.pdf, *.docx, ...) are stripped bottom-up before chunking.
package chunker
