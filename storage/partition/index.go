package partition

import (
	"slices"

	"github.com/siamjuris/clauseindex/storage"
)

// FlatIndex is an exact-search vector index over row-major float32 vectors.
// Rows are append-only except for positional removal; callers keep rows
// aligned with their own record lists.
type FlatIndex struct {
	dim  int
	rows [][]float32
}

// Hit is one nearest-neighbor result from Search.
type Hit struct {
	Row   int
	Score float32
}

// NewFlatIndex creates an empty index. The dimensionality is fixed by the
// first row added.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Dim returns the index dimensionality, or 0 while empty.
func (x *FlatIndex) Dim() int { return x.dim }

// Len returns the number of rows.
func (x *FlatIndex) Len() int { return len(x.rows) }

// Row returns the vector at position i.
func (x *FlatIndex) Row(i int) []float32 { return x.rows[i] }

// Add appends vectors to the index. The first batch on an empty index sets
// the dimensionality; later rows must match it.
func (x *FlatIndex) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if x.dim == 0 {
			if len(v) == 0 {
				return storage.ErrDimensionMismatch
			}
			x.dim = len(v)
		}
		if len(v) != x.dim {
			return storage.ErrDimensionMismatch
		}
		x.rows = append(x.rows, v)
	}
	return nil
}

// RemoveRows deletes the rows at the given positions. Positions are computed
// against the pre-removal layout; removal walks them back-to-front so earlier
// positions stay valid during the walk.
func (x *FlatIndex) RemoveRows(positions []int) {
	if len(positions) == 0 {
		return
	}
	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		if p < 0 || p >= len(x.rows) {
			continue
		}
		x.rows = append(x.rows[:p], x.rows[p+1:]...)
	}
	if len(x.rows) == 0 {
		x.dim = 0
	}
}

// Search returns the k rows with the highest inner product against query,
// ordered by score descending. Vectors are expected to be unit-normalized,
// making inner product equivalent to cosine similarity.
func (x *FlatIndex) Search(query []float32, k int) []Hit {
	if k <= 0 || len(x.rows) == 0 || len(query) != x.dim {
		return nil
	}

	hits := make([]Hit, 0, len(x.rows))
	for i, row := range x.rows {
		hits = append(hits, Hit{Row: i, Score: dot(query, row)})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
