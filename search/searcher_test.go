package search

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamjuris/clauseindex/ai/mock"
	"github.com/siamjuris/clauseindex/citegraph"
	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
	"github.com/siamjuris/clauseindex/storage/partition"
)

const (
	testRegName       = "ระเบียบสำนักงานการตรวจเงินแผ่นดินว่าด้วยการตรวจสอบ พ.ศ. 2566"
	testGuidelineName = "แนวปฏิบัติการตรวจสอบการเงิน"
	testOrderName     = "คำสั่งมอบหมายงานตรวจสอบ"
)

// queryVector is what the mock embedder returns for every query in these
// tests. Record vectors are chosen relative to it.
var queryVector = []float32{1, 0, 0}

type seedChunk struct {
	rec core.ChunkRecord
	vec []float32
}

func seedStore(t *testing.T, dir string, chunks []seedChunk) storage.PartitionStore {
	t.Helper()
	s, err := partition.NewStore(dir)
	require.NoError(t, err)
	if len(chunks) == 0 {
		return s
	}
	vecs := make([][]float32, len(chunks))
	recs := make([]core.ChunkRecord, len(chunks))
	for i, c := range chunks {
		vecs[i] = c.vec
		recs[i] = c.rec
	}
	require.NoError(t, s.Update(context.Background(), func(tx storage.PartitionTx) error {
		return tx.Add(vecs, recs)
	}))
	return s
}

func regChunk(id, text string) seedChunk {
	return seedChunk{
		rec: core.ChunkRecord{
			ID:            id,
			DocumentID:    "doc-reg",
			LawName:       testRegName,
			Text:          text,
			DocClass:       core.ClassRegulation,
			EffectiveDate: "2023-01-01",
		},
		vec: []float32{1, 0, 0},
	}
}

func newTestProvider() (*mock.MockEmbedder, *mock.MockExtractor, *mock.MockProvider) {
	emb := mock.NewMockEmbedder()
	emb.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return queryVector, nil
	}
	ext := mock.NewMockExtractor()
	p := mock.NewMockProviderWithServices(emb, ext).(*mock.MockProvider)
	return emb, ext, p
}

func TestNewSearcherValidation(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), nil)
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	_, err := NewSearcher(nil, other, provider)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewSearcher(reg, other, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewSearcher(reg, other, provider, WithFetchMultiplier(0))
	assert.Error(t, err)

	_, err = NewSearcher(reg, other, provider, WithWeights(-1, 0.5))
	assert.Error(t, err)
}

func TestSearchRejectsBadQueries(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), nil)
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), Query{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = s.Search(context.Background(), Query{Text: "การเงิน", K: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = s.Search(context.Background(), Query{Text: "การเงิน", Mode: Mode("nonsense")})
	assert.Error(t, err)
}

func TestSearchEmptyPartitions(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), nil)
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchHierarchyBoostOrdersRegulationFirst(t *testing.T) {
	dir := t.TempDir()
	// Same text and same vector on both sides so base relevance is equal;
	// only the class multiplier can separate them.
	text := "การตรวจสอบการเงินและงบประมาณของหน่วยรับตรวจ"
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{regChunk("ข้อ 5", text)})
	other := seedStore(t, filepath.Join(dir, "others"), []seedChunk{{
		rec: core.ChunkRecord{
			ID:            "ข้อ 1",
			DocumentID:    "doc-guide",
			LawName:       testGuidelineName,
			Text:          text,
			DocClass:       core.ClassGuideline,
			EffectiveDate: "2023-01-01",
		},
		vec: []float32{1, 0, 0},
	}})
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeGeneral})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ClassRegulation, results[0].Record.DocClass)
	assert.Equal(t, core.ClassGuideline, results[1].Record.DocClass)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTemporalFilter(t *testing.T) {
	dir := t.TempDir()
	expired := regChunk("ข้อ 9", "การตรวจสอบการเงิน ฉบับเดิม")
	expired.rec.EffectiveDate = "2020-01-01"
	expired.rec.ExpireDate = "2022-12-31"
	current := regChunk("ข้อ 5", "การตรวจสอบการเงิน ฉบับปัจจุบัน")

	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{expired, current})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	asOf := func(date string) []core.SearchResult {
		ref, err := core.ParseDate(date)
		require.NoError(t, err)
		results, err := s.Search(context.Background(), Query{
			Text:          "การตรวจสอบการเงิน",
			Mode:          ModeRegulation,
			ReferenceDate: ref,
		})
		require.NoError(t, err)
		return results
	}

	results := asOf("2021-06-01")
	require.Len(t, results, 1)
	assert.Equal(t, "ข้อ 9", results[0].Record.ID)

	results = asOf("2024-06-01")
	require.Len(t, results, 1)
	assert.Equal(t, "ข้อ 5", results[0].Record.ID)

	// Nothing in force before either window opens.
	assert.Empty(t, asOf("2019-01-01"))
}

func TestSearchDedupByLawNameAndID(t *testing.T) {
	dir := t.TempDir()
	a := regChunk("ข้อ 5", "การตรวจสอบการเงิน")
	b := regChunk("ข้อ 5", "การตรวจสอบการเงิน")
	b.rec.Chapter = "หมวด 2"

	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{a, b})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchModeFiltersClass(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), nil)
	other := seedStore(t, filepath.Join(dir, "others"), []seedChunk{
		{
			rec: core.ChunkRecord{
				ID: "ข้อ 1", DocumentID: "doc-guide", LawName: testGuidelineName,
				Text: "แนวปฏิบัติการตรวจสอบการเงิน", DocClass: core.ClassGuideline,
			},
			vec: []float32{1, 0, 0},
		},
		{
			rec: core.ChunkRecord{
				ID: "ข้อ 2", DocumentID: "doc-order", LawName: testOrderName,
				Text: "คำสั่งเรื่องการตรวจสอบการเงิน", DocClass: core.ClassOrder,
			},
			vec: []float32{1, 0, 0},
		},
	})
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeGuideline})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ClassGuideline, results[0].Record.DocClass)

	results, err = s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeOrder})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ClassOrder, results[0].Record.DocClass)
}

func TestSearchDegradesWhenDensePathFails(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{
		regChunk("ข้อ 5", "การตรวจสอบการเงินและงบประมาณ"),
	})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	emb, _, provider := newTestProvider()
	emb.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding host unreachable")
	}

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ข้อ 5", results[0].Record.ID)
}

func TestSearchKeywordExtractionFallback(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{
		regChunk("ข้อ 5", "การตรวจสอบการเงินและงบประมาณ"),
	})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, ext, provider := newTestProvider()
	ext.ExtractKeywordsFunc = func(ctx context.Context, query string) ([]string, error) {
		return nil, errors.New("extractor host unreachable")
	}

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchCachesResults(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{
		regChunk("ข้อ 5", "การตรวจสอบการเงิน"),
	})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	emb, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	q := Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation, ReferenceDate: mustDate(t, "2024-06-01")}
	first, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	callsAfterFirst := emb.CallCount()

	second, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, emb.CallCount())
}

func TestSearchAttachesLinkedDocuments(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{
		regChunk("ข้อ 5", "การตรวจสอบการเงินและงบประมาณ"),
	})
	other := seedStore(t, filepath.Join(dir, "others"), []seedChunk{
		{
			rec: core.ChunkRecord{
				ID: "ข้อ 1", DocumentID: "doc-guide", LawName: testGuidelineName,
				Text: "แนวปฏิบัติตามข้อ 5", DocClass: core.ClassGuideline,
				EffectiveDate: "2023-01-01",
			},
			vec: []float32{0, 1, 0},
		},
		{
			rec: core.ChunkRecord{
				ID: "ข้อ 1", DocumentID: "doc-guide-old", LawName: testGuidelineName + " เดิม",
				Text: "แนวปฏิบัติฉบับยกเลิก", DocClass: core.ClassGuideline,
				EffectiveDate: "2020-01-01", ExpireDate: "2022-12-31",
			},
			vec: []float32{0, 1, 0},
		},
	})
	_, _, provider := newTestProvider()

	graph := citegraph.NewGraph()
	graph.AddLink(core.NormalizeLawName(testRegName), "ข้อ 5", testGuidelineName)
	graph.AddLink(core.NormalizeLawName(testRegName), "ข้อ 5", testGuidelineName+" เดิม")

	s, err := NewSearcher(reg, other, provider, WithLinker(citegraph.NewLinker(graph)))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
	require.NoError(t, err)
	require.Len(t, results, 1)
	// The expired guideline edition is filtered out of the related set.
	require.Len(t, results[0].Related, 1)
	assert.Equal(t, "doc-guide", results[0].Related[0].DocumentID)
}

func TestSearchTieOrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	// Mirrored rankings: ข้อ 1 wins the dense path, ข้อ 2 the lexical path,
	// so the fused scores are exactly equal. The dense-first fusion order
	// must hold across repeated identical queries.
	first := regChunk("ข้อ 1", "การตรวจสอบการเงิน และระเบียบวิธีปฏิบัติอื่นใดตามที่กำหนดไว้ในประกาศของหน่วยงาน")
	second := regChunk("ข้อ 2", "การตรวจสอบการเงิน")
	second.vec = []float32{0.9, 0.1, 0}

	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{first, second})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider, WithCacheSize(0))
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "ข้อ 1", results[0].Record.ID)
		assert.Equal(t, "ข้อ 2", results[1].Record.ID)
	}
}

func TestSearchFusionTopOfBothPathsRanksFirst(t *testing.T) {
	dir := t.TempDir()
	// ข้อ 5 leads both the dense ranking (highest inner product) and the
	// lexical ranking (exact short match), so it must lead the fused output.
	winner := regChunk("ข้อ 5", "การตรวจสอบการเงิน")
	runnerUp := regChunk("ข้อ 6", "การตรวจสอบการเงิน ตามหลักเกณฑ์และวิธีการที่ผู้ว่าการกำหนดเพิ่มเติม")
	runnerUp.vec = []float32{0.6, 0.4, 0}
	trailing := regChunk("ข้อ 7", "การรายงานผลการตรวจสอบการเงิน ต่อคณะกรรมการตรวจเงินแผ่นดินภายในกำหนดเวลา")
	trailing.vec = []float32{0.3, 0.7, 0}

	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{trailing, winner, runnerUp})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ข้อ 5", results[0].Record.ID)
}

func TestSearchInvalidateCacheDropsStaleResults(t *testing.T) {
	dir := t.TempDir()
	reg := seedStore(t, filepath.Join(dir, "regulations"), []seedChunk{
		regChunk("ข้อ 5", "การตรวจสอบการเงิน"),
	})
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	q := Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation, ReferenceDate: mustDate(t, "2024-06-01")}
	results, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, reg.Update(context.Background(), func(tx storage.PartitionTx) error {
		_, err := tx.DeleteByFilter(storage.FieldDocumentID, "doc-reg")
		return err
	}))

	// Without invalidation the cache still serves the deleted chunk.
	stale, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, stale, 1)

	s.InvalidateCache()
	fresh, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestSearchRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	chunks := make([]seedChunk, 10)
	for i := range chunks {
		chunks[i] = regChunk(fmt.Sprintf("ข้อ %d", i+1), fmt.Sprintf("การตรวจสอบการเงิน รายการที่ %d", i+1))
	}
	reg := seedStore(t, filepath.Join(dir, "regulations"), chunks)
	other := seedStore(t, filepath.Join(dir, "others"), nil)
	_, _, provider := newTestProvider()

	s, err := NewSearcher(reg, other, provider)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "การตรวจสอบการเงิน", Mode: ModeRegulation, K: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}
