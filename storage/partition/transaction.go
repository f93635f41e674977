package partition

import (
	"slices"

	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
)

// transaction holds the in-memory partition state mutated during one
// Store.Update call. It implements storage.PartitionTx.
type transaction struct {
	index   *FlatIndex
	records []core.ChunkRecord
}

var _ storage.PartitionTx = (*transaction)(nil)

// Add appends vector rows and records, preserving index alignment.
func (tx *transaction) Add(vectors [][]float32, records []core.ChunkRecord) error {
	if len(vectors) != len(records) {
		return storage.ErrVectorRecordMismatch
	}
	if err := tx.index.Add(vectors); err != nil {
		return err
	}
	tx.records = append(tx.records, records...)
	return nil
}

// DeleteByFilter removes every row and record whose field equals value.
// Target positions are computed before any removal, then walked back-to-front
// so remaining positions stay valid.
func (tx *transaction) DeleteByFilter(field, value string) (int, error) {
	var positions []int
	for i := range tx.records {
		got, err := storage.RecordField(&tx.records[i], field)
		if err != nil {
			return 0, err
		}
		if got == value {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return 0, nil
	}

	tx.index.RemoveRows(positions)

	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		tx.records = append(tx.records[:p], tx.records[p+1:]...)
	}
	return len(positions), nil
}

// UpdateMetadataField mutates matching records in place. Vectors are
// untouched.
func (tx *transaction) UpdateMetadataField(filterField, filterValue, updateField, newValue string) (int, error) {
	updated := 0
	for i := range tx.records {
		got, err := storage.RecordField(&tx.records[i], filterField)
		if err != nil {
			return 0, err
		}
		if got != filterValue {
			continue
		}
		if err := storage.SetRecordField(&tx.records[i], updateField, newValue); err != nil {
			return 0, err
		}
		updated++
	}
	return updated, nil
}

// Records returns the current in-memory record list.
func (tx *transaction) Records() []core.ChunkRecord {
	return tx.records
}
