package partition

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/siamjuris/clauseindex/storage"
)

// MarshalIndex serializes a FlatIndex to MUS binary: varint dimension,
// varint row count, then the row-major float32 payload.
func MarshalIndex(x *FlatIndex) []byte {
	size := varint.Int.Size(x.dim) + varint.Int.Size(len(x.rows))
	for _, row := range x.rows {
		for _, v := range row {
			size += raw.Float32.Size(v)
		}
	}

	bs := make([]byte, size)
	n := varint.Int.Marshal(x.dim, bs)
	n += varint.Int.Marshal(len(x.rows), bs[n:])
	for _, row := range x.rows {
		for _, v := range row {
			n += raw.Float32.Marshal(v, bs[n:])
		}
	}
	return bs
}

// UnmarshalIndex deserializes a FlatIndex from MUS binary.
func UnmarshalIndex(bs []byte) (*FlatIndex, error) {
	dim, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("partition: reading index dimension: %w", err)
	}
	count, n2, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, fmt.Errorf("partition: reading index row count: %w", err)
	}
	n += n2

	if dim < 0 || count < 0 {
		return nil, storage.ErrTruncatedData
	}

	x := &FlatIndex{dim: dim, rows: make([][]float32, 0, count)}
	for i := 0; i < count; i++ {
		row := make([]float32, dim)
		for j := 0; j < dim; j++ {
			v, vn, err := raw.Float32.Unmarshal(bs[n:])
			if err != nil {
				return nil, fmt.Errorf("partition: reading row %d: %w", i, storage.ErrTruncatedData)
			}
			row[j] = v
			n += vn
		}
		x.rows = append(x.rows, row)
	}
	return x, nil
}
