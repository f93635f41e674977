package citegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddLinkUnion(t *testing.T) {
	g := NewGraph()

	g.AddLink("ระเบียบก", "ข้อ 6", "คำสั่งที่ 20/2566")
	g.AddLink("ระเบียบก", "ข้อ 6", "คำสั่งที่ 20/2566") // duplicate
	g.AddLink("ระเบียบก", "ข้อ 6", "แนวทางปฏิบัติ ข")

	titles := g.CitingTitles("ระเบียบก", "ข้อ 6")
	assert.Equal(t, []string{"คำสั่งที่ 20/2566", "แนวทางปฏิบัติ ข"}, titles)

	entries := g.Citations("คำสั่งที่ 20/2566")
	assert.Equal(t, []string{"ระเบียบก : ข้อ 6"}, entries)
}

func TestGraphMergeIsUnion(t *testing.T) {
	g1 := NewGraph()
	g1.AddLink("ระเบียบก", "ข้อ 6", "คำสั่ง 1")

	g2 := NewGraph()
	g2.AddLink("ระเบียบก", "ข้อ 6", "คำสั่ง 2")
	g2.AddLink("ระเบียบข", "ข้อ 9", "แนวทาง 1")

	g1.Merge(g2)

	assert.Equal(t, []string{"คำสั่ง 1", "คำสั่ง 2"}, g1.CitingTitles("ระเบียบก", "ข้อ 6"))
	assert.Equal(t, []string{"แนวทาง 1"}, g1.CitingTitles("ระเบียบข", "ข้อ 9"))
}

func TestGraphMergeSelf(t *testing.T) {
	g := NewGraph()
	g.AddLink("ระเบียบก", "ข้อ 6", "คำสั่ง 1")

	// Must not deadlock and must not duplicate entries.
	g.Merge(g)

	assert.Equal(t, []string{"คำสั่ง 1"}, g.CitingTitles("ระเบียบก", "ข้อ 6"))
	assert.Equal(t, 1, g.Len())
}

func TestGraphSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	g := NewGraph()
	g.AddLink("ระเบียบก", "ข้อ 36 (2)", "คำสั่ง 1")
	require.NoError(t, g.Save(dir))

	loaded, err := LoadGraph(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"คำสั่ง 1"}, loaded.CitingTitles("ระเบียบก", "ข้อ 36 (2)"))
	assert.Equal(t, []string{"ระเบียบก : ข้อ 36 (2)"}, loaded.Citations("คำสั่ง 1"))
}

func TestLoadGraphMissingFiles(t *testing.T) {
	g, err := LoadGraph(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, g.Len())
	assert.Nil(t, g.CitingTitles("x", "y"))
}

func TestGraphSaveMergeExisting(t *testing.T) {
	dir := t.TempDir()

	g1 := NewGraph()
	g1.AddLink("ระเบียบก", "ข้อ 6", "คำสั่ง 1")
	require.NoError(t, g1.Save(dir))

	// A second batch loads the existing graph, merges, and saves. Earlier
	// entries survive.
	g2, err := LoadGraph(dir)
	require.NoError(t, err)
	g2.AddLink("ระเบียบก", "ข้อ 6", "คำสั่ง 2")
	require.NoError(t, g2.Save(dir))

	final, err := LoadGraph(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"คำสั่ง 1", "คำสั่ง 2"},
		final.CitingTitles("ระเบียบก", "ข้อ 6"))
}
