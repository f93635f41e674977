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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunkRecord indicates a ChunkRecord failed validation.
	ErrInvalidChunkRecord = errors.New("invalid chunk record")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyLawName indicates the LawName field is empty.
	ErrEmptyLawName = errors.New("law name cannot be empty")

	// ErrInvalidDocumentClass indicates an unrecognized document class label.
	ErrInvalidDocumentClass = errors.New("invalid document class")

	// ErrInvalidWindow indicates an effective date after the expire date.
	ErrInvalidWindow = errors.New("effective date after expire date")

	// ErrInvalidVersion indicates a version number below 1.
	ErrInvalidVersion = errors.New("version must be at least 1")
)
