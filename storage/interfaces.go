package storage

import (
	"context"

	"github.com/siamjuris/clauseindex/core"
)

// Snapshot is a point-in-time copy of a partition's vector index and record
// list. Rows and records are index-aligned: Vectors[i] embeds Records[i].
type Snapshot struct {
	Dim     int
	Vectors [][]float32
	Records []core.ChunkRecord
}

// PartitionTx exposes the mutations available inside a partition transaction.
// All methods operate on in-memory state; nothing reaches disk until the
// transaction commits.
type PartitionTx interface {
	// Add appends vector rows and records, preserving index alignment.
	// The first batch on an empty partition fixes the index dimensionality.
	// Returns ErrVectorRecordMismatch or ErrDimensionMismatch on bad input.
	Add(vectors [][]float32, records []core.ChunkRecord) error

	// DeleteByFilter removes every row and record whose field equals value.
	// Returns the number of records removed, or ErrUnknownField.
	DeleteByFilter(field, value string) (int, error)

	// UpdateMetadataField sets updateField to newValue on every record whose
	// filterField equals filterValue. Vectors are untouched. Returns the
	// number of records updated, or ErrUnknownField.
	UpdateMetadataField(filterField, filterValue, updateField, newValue string) (int, error)

	// Records returns the current in-memory record list, including
	// uncommitted changes from this transaction.
	Records() []core.ChunkRecord
}

// PartitionStore owns the on-disk state of one partition. Implementations
// must serialize transactions on the same partition path.
type PartitionStore interface {
	// Update runs fn inside a transaction. If fn returns nil the new state
	// is persisted atomically; otherwise all changes are discarded and the
	// on-disk files are left untouched. Returns ErrStoreBusy if the
	// partition lock cannot be acquired within the timeout.
	Update(ctx context.Context, fn func(tx PartitionTx) error) error

	// Load returns a snapshot of the current partition state. An empty
	// partition yields an empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// Path returns the partition directory.
	Path() string
}

// DocumentRepository tracks document version lineages in the metadata store.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// PutDocument stores a document version. When meta.IsLatest is true,
	// any other version of the same lineage loses its latest flag in the
	// same transaction.
	PutDocument(ctx context.Context, meta *core.DocumentMeta) error

	// GetDocument retrieves a document version by its document ID.
	// Returns ErrNotFound if it doesn't exist.
	GetDocument(ctx context.Context, documentID string) (*core.DocumentMeta, error)

	// GetLatest retrieves the latest version of a lineage, identified by
	// class and normalized title. Returns ErrNotFound if no version exists.
	GetLatest(ctx context.Context, class core.DocumentClass, normalizedTitle string) (*core.DocumentMeta, error)

	// ListVersions retrieves all versions of a lineage, ordered by version
	// number ascending. Returns an empty slice when none exist.
	ListVersions(ctx context.Context, class core.DocumentClass, normalizedTitle string) ([]*core.DocumentMeta, error)

	// ListDocuments retrieves every stored document version.
	ListDocuments(ctx context.Context) ([]*core.DocumentMeta, error)

	// DeleteDocument removes a document version by its document ID.
	// Returns ErrNotFound if it doesn't exist.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
