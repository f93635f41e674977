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

package badger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
)

// DocumentRepository implements storage.DocumentRepository using BadgerDB.
type DocumentRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a document repository on the given backend.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend cannot be nil")
	}
	return &DocumentRepository{
		backend: backend,
		logger:  slog.Default().With("component", "document-repository"),
	}, nil
}

// PutDocument stores a document version and maintains the lineage index.
// When meta.IsLatest is set, every other version of the lineage loses its
// latest flag in the same transaction.
func (r *DocumentRepository) PutDocument(ctx context.Context, meta *core.DocumentMeta) error {
	if err := core.ValidateDocumentMeta(meta); err != nil {
		return err
	}
	if meta.NormalizedTitle == "" {
		meta.NormalizedTitle = core.NormalizeLawName(meta.Title)
	}
	now := time.Now()
	if meta.InsertedAt.IsZero() {
		meta.InsertedAt = now
	}
	meta.UpdatedAt = now

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if meta.IsLatest {
			if err := r.clearLatest(tx, meta); err != nil {
				return err
			}
		}
		if err := r.write(tx, meta); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// clearLatest drops the latest flag from every other version of meta's
// lineage.
func (r *DocumentRepository) clearLatest(tx *badger.Txn, meta *core.DocumentMeta) error {
	others, err := r.lineage(tx, meta.Class, meta.NormalizedTitle)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.DocumentID == meta.DocumentID || !other.IsLatest {
			continue
		}
		other.IsLatest = false
		other.UpdatedAt = time.Now()
		if err := r.write(tx, other); err != nil {
			return err
		}
	}
	return nil
}

func (r *DocumentRepository) write(tx *badger.Txn, meta *core.DocumentMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := tx.Set(makeDocumentKey(meta.DocumentID), data); err != nil {
		return err
	}
	return tx.Set(makeLineageKey(meta.Class, meta.NormalizedTitle, meta.Version), []byte(meta.DocumentID))
}

// GetDocument retrieves a document version by its document ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, documentID string) (*core.DocumentMeta, error) {
	var meta *core.DocumentMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		meta, err = r.read(tx, documentID)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *DocumentRepository) read(tx *badger.Txn, documentID string) (*core.DocumentMeta, error) {
	item, err := tx.Get(makeDocumentKey(documentID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var meta core.DocumentMeta
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &meta)
	}); err != nil {
		return nil, err
	}
	return &meta, nil
}

// lineage returns all versions of a lineage in ascending version order.
func (r *DocumentRepository) lineage(tx *badger.Txn, class core.DocumentClass, normalizedTitle string) ([]*core.DocumentMeta, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeLineagePrefix(class, normalizedTitle)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var metas []*core.DocumentMeta
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var documentID string
		if err := iter.Item().Value(func(val []byte) error {
			documentID = string(val)
			return nil
		}); err != nil {
			return nil, err
		}

		meta, err := r.read(tx, documentID)
		if errors.Is(err, storage.ErrNotFound) {
			// Stale lineage entry; skip.
			continue
		}
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// GetLatest retrieves the latest version of a lineage. It prefers the version
// flagged latest and falls back to the highest version number.
func (r *DocumentRepository) GetLatest(ctx context.Context, class core.DocumentClass, normalizedTitle string) (*core.DocumentMeta, error) {
	var result *core.DocumentMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		metas, err := r.lineage(tx, class, normalizedTitle)
		if err != nil {
			return err
		}
		for _, m := range metas {
			if m.IsLatest {
				result = m
				return nil
			}
		}
		if len(metas) > 0 {
			result = metas[len(metas)-1]
			return nil
		}
		return storage.ErrNotFound
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListVersions retrieves all versions of a lineage, ordered by version
// ascending.
func (r *DocumentRepository) ListVersions(ctx context.Context, class core.DocumentClass, normalizedTitle string) ([]*core.DocumentMeta, error) {
	var metas []*core.DocumentMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		metas, err = r.lineage(tx, class, normalizedTitle)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return metas, nil
}

// ListDocuments retrieves every stored document version.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.DocumentMeta, error) {
	var metas []*core.DocumentMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var meta core.DocumentMeta
			if err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return err
			}
			m := meta
			metas = append(metas, &m)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return metas, nil
}

// DeleteDocument removes a document version and its lineage entry.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, documentID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := r.read(tx, documentID)
		if err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentKey(documentID)); err != nil {
			return err
		}
		if err := tx.Delete(makeLineageKey(meta.Class, meta.NormalizedTitle, meta.Version)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (r *DocumentRepository) Close() error {
	return r.backend.Close()
}
