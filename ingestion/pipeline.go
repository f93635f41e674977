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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/siamjuris/clauseindex/ai"
	"github.com/siamjuris/clauseindex/chunker"
	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
)

// DefaultBatchSize is the number of chunk texts sent to the embedder per call.
const DefaultBatchSize = 32

// Pipeline turns documents into indexed, embedded chunks. Chunking and
// embedding happen outside the partition lock; each document commits in a
// single partition transaction.
type Pipeline struct {
	regStore   storage.PartitionStore
	otherStore storage.PartitionStore
	documents  storage.DocumentRepository
	provider   ai.Provider
	chunker    *chunker.Chunker
	pool       *ants.Pool
	batchSize  int
	afterWrite func()
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the embedding worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunk texts each embedding call carries.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", n)
		}
		p.batchSize = n
		return nil
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c == nil {
			return fmt.Errorf("chunker must not be nil")
		}
		p.chunker = c
		return nil
	}
}

// WithAfterWrite registers a hook invoked after every committed partition
// write, including ingests, expiries, and deletions. Used to drop stale
// query caches.
func WithAfterWrite(fn func()) Option {
	return func(p *Pipeline) error {
		if fn == nil {
			return fmt.Errorf("after-write hook must not be nil")
		}
		p.afterWrite = fn
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the two partitions and the
// document metadata repository.
func NewPipeline(
	regStore, otherStore storage.PartitionStore,
	documents storage.DocumentRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if regStore == nil || otherStore == nil {
		return nil, ErrStoreRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ch, err := chunker.New()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		regStore:   regStore,
		otherStore: otherStore,
		documents:  documents,
		provider:   provider,
		chunker:    ch,
		pool:       pool,
		batchSize:  DefaultBatchSize,
		logger:     slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Result reports what one ingestion committed.
type Result struct {
	DocumentID string
	LawName    string
	Version    int
	Chunks     int
}

// IngestDocument chunks, embeds, and indexes one document version. A missing
// DocumentID is derived from the class, title, and version. Re-ingesting the
// same document ID replaces its previous chunks in the same transaction.
func (p *Pipeline) IngestDocument(ctx context.Context, doc chunker.Document) (*Result, error) {
	if doc.Version < 1 {
		doc.Version = 1
	}
	records, err := p.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoChunks
	}

	lawName := records[0].LawName
	docID := doc.DocumentID
	if docID == "" {
		docID = core.DocumentIDFor(doc.Class, lawName, doc.Version)
		for i := range records {
			records[i].DocumentID = docID
		}
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text
	}
	vectors, err := p.embedBatches(ctx, texts)
	if err != nil {
		return nil, err
	}

	store := p.storeFor(doc.Class)
	err = store.Update(ctx, func(tx storage.PartitionTx) error {
		if removed, err := tx.DeleteByFilter(storage.FieldDocumentID, docID); err != nil {
			return err
		} else if removed > 0 {
			p.logger.Info("replaced existing chunks for document", "document_id", docID, "removed", removed)
		}
		return tx.Add(vectors, records)
	})
	if err != nil {
		return nil, fmt.Errorf("committing chunks: %w", err)
	}
	p.notifyWrite()

	meta := &core.DocumentMeta{
		DocumentID:    docID,
		Title:         lawName,
		Class:         doc.Class,
		Version:       doc.Version,
		IsLatest:      true,
		AnnounceDate:  doc.AnnounceDate,
		EffectiveDate: doc.EffectiveDate,
		ExpireDate:    doc.ExpireDate,
	}
	if err := p.documents.PutDocument(ctx, meta); err != nil {
		return nil, fmt.Errorf("recording document metadata: %w", err)
	}

	p.logger.Info("document ingested",
		"document_id", docID, "law_name", lawName,
		"class", doc.Class, "version", doc.Version, "chunks", len(records))
	return &Result{
		DocumentID: docID,
		LawName:    lawName,
		Version:    doc.Version,
		Chunks:     len(records),
	}, nil
}

// ReplaceDocument ingests a new edition of an existing lineage. The previous
// latest version keeps its chunks but has their expire date closed at the day
// before the new edition takes effect, so date-scoped queries still reach the
// superseded text.
func (p *Pipeline) ReplaceDocument(ctx context.Context, doc chunker.Document) (*Result, error) {
	title := doc.Title
	if title == "" {
		title = chunker.ExtractTitle(doc.Text)
	}
	normalized := core.NormalizeLawName(title)

	latest, err := p.documents.GetLatest(ctx, doc.Class, normalized)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return p.IngestDocument(ctx, doc)
	case err != nil:
		return nil, fmt.Errorf("looking up lineage %q: %w", normalized, err)
	}

	doc.Version = latest.Version + 1
	doc.DocumentID = ""

	expireAt := previousDay(doc.EffectiveDate)
	if expireAt != "" {
		store := p.storeFor(latest.Class)
		err = store.Update(ctx, func(tx storage.PartitionTx) error {
			updated, err := tx.UpdateMetadataField(
				storage.FieldDocumentID, latest.DocumentID,
				storage.FieldExpireDate, expireAt)
			if err == nil {
				p.logger.Info("expired superseded chunks",
					"document_id", latest.DocumentID, "expire_date", expireAt, "updated", updated)
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("expiring superseded version: %w", err)
		}
		p.notifyWrite()
		latest.ExpireDate = expireAt
	}
	latest.IsLatest = false
	if err := p.documents.PutDocument(ctx, latest); err != nil {
		return nil, fmt.Errorf("updating superseded metadata: %w", err)
	}

	return p.IngestDocument(ctx, doc)
}

// ExpireDocument stamps an expire date on every chunk of a document version.
func (p *Pipeline) ExpireDocument(ctx context.Context, documentID, expireDate string) (int, error) {
	if _, err := core.ParseDate(expireDate); err != nil {
		return 0, fmt.Errorf("parsing expire date %q: %w", expireDate, err)
	}
	meta, err := p.documents.GetDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}

	var updated int
	store := p.storeFor(meta.Class)
	err = store.Update(ctx, func(tx storage.PartitionTx) error {
		n, err := tx.UpdateMetadataField(
			storage.FieldDocumentID, documentID,
			storage.FieldExpireDate, expireDate)
		updated = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("expiring chunks: %w", err)
	}
	p.notifyWrite()

	meta.ExpireDate = expireDate
	if err := p.documents.PutDocument(ctx, meta); err != nil {
		return updated, fmt.Errorf("recording expiry: %w", err)
	}
	p.logger.Info("document expired", "document_id", documentID, "expire_date", expireDate, "chunks", updated)
	return updated, nil
}

// DeleteDocument removes a document version's chunks and metadata. Deleting a
// document that does not exist is a no-op.
func (p *Pipeline) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	meta, err := p.documents.GetDocument(ctx, documentID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var removed int
	store := p.storeFor(meta.Class)
	err = store.Update(ctx, func(tx storage.PartitionTx) error {
		n, err := tx.DeleteByFilter(storage.FieldDocumentID, documentID)
		removed = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	p.notifyWrite()

	if err := p.documents.DeleteDocument(ctx, documentID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return removed, fmt.Errorf("deleting document metadata: %w", err)
	}
	p.logger.Info("document deleted", "document_id", documentID, "chunks", removed)
	return removed, nil
}

func (p *Pipeline) notifyWrite() {
	if p.afterWrite != nil {
		p.afterWrite()
	}
}

// Release frees the worker pool. The pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// embedBatches embeds texts in fixed-size batches on the worker pool and
// reassembles the vectors in input order.
func (p *Pipeline) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	embedder := p.provider.Embedder()

	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		batchStart := start
		batch := texts[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			vecs, err := embedder.EmbedTexts(ctx, batch)
			if err == nil && len(vecs) != len(batch) {
				err = fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(batch), len(vecs))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			copy(vectors[batchStart:], vecs)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting embedding batch: %w", submitErr)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embedding chunks: %w", firstErr)
	}
	return vectors, nil
}

func (p *Pipeline) storeFor(class core.DocumentClass) storage.PartitionStore {
	if class.Partition() == core.PartitionRegulations {
		return p.regStore
	}
	return p.otherStore
}

// previousDay returns the day before a wire-format date, or empty when the
// date is missing or malformed.
func previousDay(date string) string {
	t, err := core.ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(core.DateLayout)
}
