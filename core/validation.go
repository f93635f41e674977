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

import "fmt"

// ValidateChunkRecord validates a ChunkRecord according to domain rules.
//
// Validation rules:
//   - Text must not be empty (the chunker never emits empty chunks)
//   - DocClass must be a known class
//   - EffectiveDate must not be after ExpireDate when both parse
//   - Version must be at least 1
//
// NOT validated:
//   - Date string format (malformed dates are normalized to an open window
//     at filter time, never rejected)
//   - ID uniqueness (unique only within a DocumentID)
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyText)
	}

	if _, err := ParseDocumentClass(string(record.DocClass)); err != nil {
		return fmt.Errorf("%w: %w %q", ErrInvalidChunkRecord, ErrInvalidDocumentClass, record.DocClass)
	}

	if record.Version < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrInvalidVersion)
	}

	if record.EffectiveDate != "" && record.ExpireDate != "" {
		eff, effErr := ParseDate(record.EffectiveDate)
		exp, expErr := ParseDate(record.ExpireDate)
		if effErr == nil && expErr == nil && eff.After(exp) {
			return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrInvalidWindow)
		}
	}

	return nil
}

// ValidateDocumentMeta validates upstream document metadata before it enters
// the metadata repository.
func ValidateDocumentMeta(meta *DocumentMeta) error {
	if meta == nil {
		return fmt.Errorf("%w: meta is nil", ErrInvalidChunkRecord)
	}
	if meta.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyLawName)
	}
	if _, err := ParseDocumentClass(string(meta.Class)); err != nil {
		return fmt.Errorf("%w: %w %q", ErrInvalidChunkRecord, ErrInvalidDocumentClass, meta.Class)
	}
	if meta.Version < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrInvalidVersion)
	}
	return nil
}
