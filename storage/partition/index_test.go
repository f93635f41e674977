package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamjuris/clauseindex/storage"
)

func TestFlatIndexSearchOrdering(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}))

	hits := x.Search([]float32{1, 0, 0}, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Row)
	assert.Equal(t, 2, hits[1].Row)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestFlatIndexDimensionFixedByFirstBatch(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{{1, 2}}))
	assert.Equal(t, 2, x.Dim())

	err := x.Add([][]float32{{1, 2, 3}})
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
}

func TestFlatIndexRemoveRows(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{{1}, {2}, {3}, {4}}))

	// Positions are pre-removal; back-to-front walk keeps them valid.
	x.RemoveRows([]int{0, 2})
	require.Equal(t, 2, x.Len())
	assert.Equal(t, float32(2), x.Row(0)[0])
	assert.Equal(t, float32(4), x.Row(1)[0])
}

func TestFlatIndexSearchBadQuery(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{{1, 0}}))

	assert.Nil(t, x.Search([]float32{1}, 5))
	assert.Nil(t, x.Search([]float32{1, 0}, 0))
}

func TestIndexCodecRoundTrip(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{
		{0.25, -1.5, 3.75},
		{1e-6, 42, -0.001},
	}))

	decoded, err := UnmarshalIndex(MarshalIndex(x))
	require.NoError(t, err)
	assert.Equal(t, x.Dim(), decoded.Dim())
	require.Equal(t, x.Len(), decoded.Len())
	for i := 0; i < x.Len(); i++ {
		assert.Equal(t, x.Row(i), decoded.Row(i))
	}
}

func TestIndexCodecEmpty(t *testing.T) {
	decoded, err := UnmarshalIndex(MarshalIndex(NewFlatIndex()))
	require.NoError(t, err)
	assert.Zero(t, decoded.Len())
	assert.Zero(t, decoded.Dim())
}

func TestIndexCodecTruncated(t *testing.T) {
	x := NewFlatIndex()
	require.NoError(t, x.Add([][]float32{{1, 2, 3}}))
	bs := MarshalIndex(x)

	_, err := UnmarshalIndex(bs[:len(bs)-4])
	assert.Error(t, err)
}
