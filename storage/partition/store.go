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

package partition

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
)

const (
	// DefaultLockTimeout bounds how long a transaction waits for the
	// partition lock before failing with ErrStoreBusy.
	DefaultLockTimeout = 20 * time.Second

	indexFile   = "vectors.bin"
	recordsFile = "records.json"
)

// Store owns one partition directory. It implements storage.PartitionStore.
type Store struct {
	path        string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLockTimeout sets how long transactions wait for the partition lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) error {
		if d <= 0 {
			return fmt.Errorf("partition: lock timeout must be positive, got %v", d)
		}
		s.lockTimeout = d
		return nil
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			return fmt.Errorf("partition: logger cannot be nil")
		}
		s.logger = logger.With("component", "partition-store")
		return nil
	}
}

// NewStore creates a store for the given partition directory. The directory
// is created lazily on the first transaction.
func NewStore(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("partition: path cannot be empty")
	}
	s := &Store{
		path:        path,
		lockTimeout: DefaultLockTimeout,
		logger:      slog.Default().With("component", "partition-store"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the partition directory.
func (s *Store) Path() string { return s.path }

// Update runs fn inside a path-locked transaction. On success both partition
// files are rewritten; the record list goes through a temp file and rename so
// it is replaced atomically. On failure nothing on disk changes.
func (s *Store) Update(ctx context.Context, fn func(tx storage.PartitionTx) error) error {
	lock, err := acquirePathLock(ctx, s.path, s.lockTimeout)
	if err != nil {
		s.logger.Warn("failed to acquire partition lock", "path", s.path, "err", err)
		return err
	}
	defer func() { <-lock }()

	if err := os.MkdirAll(s.path, 0755); err != nil {
		return fmt.Errorf("partition: creating %s: %w", s.path, err)
	}

	tx, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		s.logger.Debug("transaction rolled back", "path", s.path, "err", err)
		return err
	}

	if err := s.persist(tx); err != nil {
		s.logger.Error("transaction persistence failed", "path", s.path, "err", err)
		return err
	}

	s.logger.Debug("transaction committed",
		"path", s.path,
		"vectors", tx.index.Len(),
		"records", len(tx.records))
	return nil
}

// Load returns a snapshot of the partition under a brief lock.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	lock, err := acquirePathLock(ctx, s.path, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer func() { <-lock }()

	tx, err := s.load()
	if err != nil {
		return nil, err
	}

	snap := &storage.Snapshot{
		Dim:     tx.index.Dim(),
		Vectors: make([][]float32, tx.index.Len()),
		Records: tx.records,
	}
	for i := range snap.Vectors {
		snap.Vectors[i] = tx.index.Row(i)
	}
	return snap, nil
}

// load reads the current partition state, or starts empty when the files
// don't exist yet.
func (s *Store) load() (*transaction, error) {
	tx := &transaction{index: NewFlatIndex()}

	indexPath := filepath.Join(s.path, indexFile)
	recordsPath := filepath.Join(s.path, recordsFile)

	indexBytes, err := os.ReadFile(indexPath)
	if os.IsNotExist(err) {
		return tx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("partition: reading %s: %w", indexPath, err)
	}

	recordBytes, err := os.ReadFile(recordsPath)
	if os.IsNotExist(err) {
		return tx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("partition: reading %s: %w", recordsPath, err)
	}

	index, err := UnmarshalIndex(indexBytes)
	if err != nil {
		return nil, err
	}
	var records []core.ChunkRecord
	if err := json.Unmarshal(recordBytes, &records); err != nil {
		return nil, fmt.Errorf("partition: decoding %s: %w", recordsPath, err)
	}

	tx.index = index
	tx.records = records
	return tx, nil
}

// persist writes both partition files, each through a temp file and rename.
func (s *Store) persist(tx *transaction) error {
	indexPath := filepath.Join(s.path, indexFile)
	if err := writeAtomic(indexPath, MarshalIndex(tx.index)); err != nil {
		return err
	}

	recordBytes, err := json.MarshalIndent(tx.records, "", "  ")
	if err != nil {
		return fmt.Errorf("partition: encoding records: %w", err)
	}
	recordsPath := filepath.Join(s.path, recordsFile)
	return writeAtomic(recordsPath, recordBytes)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("partition: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("partition: replacing %s: %w", path, err)
	}
	return nil
}
