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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/siamjuris/clauseindex/ai"
	"github.com/siamjuris/clauseindex/citegraph"
	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/storage"
)

// Mode selects which document classes a query runs against.
type Mode string

const (
	// ModeGeneral searches both partitions and applies hierarchy boosts.
	ModeGeneral Mode = "general"

	// ModeRegulation searches the regulations partition only.
	ModeRegulation Mode = "regulation"

	// ModeOrder restricts the others partition to orders.
	ModeOrder Mode = "order"

	// ModeGuideline restricts the others partition to guidelines.
	ModeGuideline Mode = "guideline"

	// ModeStandard restricts the others partition to standards.
	ModeStandard Mode = "standard"
)

// Tuning defaults. These are retrieval-quality knobs, overridable per
// searcher; only the relative hierarchy ordering is relied on elsewhere.
const (
	DefaultResultCount     = 5
	DefaultFetchMultiplier = 4
	DefaultRRFConstant     = 60.0
	DefaultDenseWeight     = 0.5
	DefaultLexicalWeight   = 0.5
	DefaultTitleBoost      = 0.05
	DefaultCacheSize       = 128
)

func defaultHierarchyBoosts() map[core.DocumentClass]float64 {
	return map[core.DocumentClass]float64{
		core.ClassRegulation: 1.30,
		core.ClassOrder:      1.10,
		core.ClassStandard:   1.05,
		core.ClassGuideline:  1.00,
	}
}

// Query describes one retrieval request.
type Query struct {
	// Text is the user's question or search phrase.
	Text string

	// K is the maximum number of results. Zero means DefaultResultCount.
	K int

	// Mode scopes the search. Empty means ModeGeneral.
	Mode Mode

	// ReferenceDate is the point in time results must be valid on. The
	// zero value means now.
	ReferenceDate time.Time
}

// Searcher runs hybrid dense plus lexical retrieval over the two vector
// partitions. Safe for concurrent use.
type Searcher struct {
	regStore   storage.PartitionStore
	otherStore storage.PartitionStore
	provider   ai.Provider
	linker     *citegraph.Linker

	fetchMultiplier int
	rrfConstant     float64
	denseWeight     float64
	lexicalWeight   float64
	titleBoost      float64
	boosts          map[core.DocumentClass]float64

	cache  *lru.Cache[string, []core.SearchResult]
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithFetchMultiplier sets how many candidates each path fetches per
// requested result before fusion and filtering.
func WithFetchMultiplier(m int) Option {
	return func(s *Searcher) error {
		if m < 1 {
			return fmt.Errorf("fetch multiplier must be at least 1, got %d", m)
		}
		s.fetchMultiplier = m
		return nil
	}
}

// WithRRFConstant sets the rank smoothing constant of the reciprocal rank
// fusion formula.
func WithRRFConstant(c float64) Option {
	return func(s *Searcher) error {
		if c <= 0 {
			return fmt.Errorf("RRF constant must be positive, got %g", c)
		}
		s.rrfConstant = c
		return nil
	}
}

// WithWeights sets the dense and lexical path weights used during fusion.
func WithWeights(dense, lexical float64) Option {
	return func(s *Searcher) error {
		if dense < 0 || lexical < 0 || dense+lexical == 0 {
			return fmt.Errorf("weights must be non-negative and not both zero")
		}
		s.denseWeight = dense
		s.lexicalWeight = lexical
		return nil
	}
}

// WithHierarchyBoosts replaces the per-class score multipliers applied in
// general mode.
func WithHierarchyBoosts(boosts map[core.DocumentClass]float64) Option {
	return func(s *Searcher) error {
		if len(boosts) == 0 {
			return fmt.Errorf("hierarchy boosts must not be empty")
		}
		s.boosts = boosts
		return nil
	}
}

// WithTitleBoost sets the additive boost applied in class-scoped modes when
// query terms appear in a chunk's law name.
func WithTitleBoost(b float64) Option {
	return func(s *Searcher) error {
		if b < 0 {
			return fmt.Errorf("title boost must be non-negative, got %g", b)
		}
		s.titleBoost = b
		return nil
	}
}

// WithCacheSize sets the query result cache capacity. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(s *Searcher) error {
		if n < 0 {
			return fmt.Errorf("cache size must be non-negative, got %d", n)
		}
		if n == 0 {
			s.cache = nil
			return nil
		}
		c, err := lru.New[string, []core.SearchResult](n)
		if err != nil {
			return fmt.Errorf("creating query cache: %w", err)
		}
		s.cache = c
		return nil
	}
}

// WithLinker attaches a citation-graph linker so regulation results carry
// their linked secondary documents.
func WithLinker(l *citegraph.Linker) Option {
	return func(s *Searcher) error {
		s.linker = l
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		s.logger = logger.With("component", "search")
		return nil
	}
}

// NewSearcher creates a Searcher over the regulations and others partitions.
func NewSearcher(regStore, otherStore storage.PartitionStore, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if regStore == nil || otherStore == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	s := &Searcher{
		regStore:        regStore,
		otherStore:      otherStore,
		provider:        provider,
		fetchMultiplier: DefaultFetchMultiplier,
		rrfConstant:     DefaultRRFConstant,
		denseWeight:     DefaultDenseWeight,
		lexicalWeight:   DefaultLexicalWeight,
		titleBoost:      DefaultTitleBoost,
		boosts:          defaultHierarchyBoosts(),
		logger:          slog.Default().With("component", "search"),
	}
	cache, err := lru.New[string, []core.SearchResult](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	s.cache = cache

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// InvalidateCache drops every cached query result. Callers invoke it after
// any write to the underlying partitions so stale chunks never outlive their
// store state.
func (s *Searcher) InvalidateCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// candidate pairs a chunk with its fused, boosted score.
type candidate struct {
	record *core.ChunkRecord
	score  float64
}

// Search runs the hybrid retrieval pipeline and returns up to q.K results
// valid on the reference date, best first.
func (s *Searcher) Search(ctx context.Context, q Query) ([]core.SearchResult, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if q.K < 0 {
		return nil, ErrInvalidLimit
	}
	k := q.K
	if k == 0 {
		k = DefaultResultCount
	}
	mode := q.Mode
	if mode == "" {
		mode = ModeGeneral
	}
	ref := q.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%s", text, mode, k, ref.Format(core.DateLayout))
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.logger.Debug("query cache hit", "mode", mode)
			return cached, nil
		}
	}

	snaps, err := s.loadPartitions(ctx, mode)
	if err != nil {
		return nil, err
	}

	fetchK := k * s.fetchMultiplier
	denseRanked, lexRanked, err := s.runPaths(ctx, text, snaps, fetchK)
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	for i, snap := range snaps {
		candidates = append(candidates, s.fuse(snap, denseRanked[i], lexRanked[i], mode, text)...)
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	results := s.selectResults(candidates, k, ref)
	if err := s.attachRelated(ctx, mode, results, ref); err != nil {
		s.logger.Warn("failed to attach linked documents", "error", err)
	}

	if s.cache != nil {
		s.cache.Add(cacheKey, results)
	}
	s.logger.Debug("search complete", "mode", mode, "results", len(results))
	return results, nil
}

// loadPartitions returns the snapshots the mode searches over.
func (s *Searcher) loadPartitions(ctx context.Context, mode Mode) ([]*storage.Snapshot, error) {
	var stores []storage.PartitionStore
	switch mode {
	case ModeGeneral:
		stores = []storage.PartitionStore{s.regStore, s.otherStore}
	case ModeRegulation:
		stores = []storage.PartitionStore{s.regStore}
	case ModeOrder, ModeGuideline, ModeStandard:
		stores = []storage.PartitionStore{s.otherStore}
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}

	snaps := make([]*storage.Snapshot, len(stores))
	for i, st := range stores {
		snap, err := st.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading partition %s: %w", st.Path(), err)
		}
		snaps[i] = snap
	}
	return snaps, nil
}

// runPaths executes the dense and lexical retrieval paths concurrently. A
// single failing path is logged and the query degrades to the other; both
// failing fails the query.
func (s *Searcher) runPaths(ctx context.Context, text string, snaps []*storage.Snapshot, fetchK int) (denseRanked, lexRanked [][]int, err error) {
	denseRanked = make([][]int, len(snaps))
	lexRanked = make([][]int, len(snaps))
	var denseErr, lexErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := s.provider.Embedder().EmbedQuery(gctx, text)
		if err != nil {
			denseErr = fmt.Errorf("embedding query: %w", err)
			return nil
		}
		for i, snap := range snaps {
			if snap.Dim != 0 && snap.Dim != len(vec) {
				s.logger.Warn("query vector dimension mismatch, skipping dense path for partition",
					"partition_dim", snap.Dim, "query_dim", len(vec))
				continue
			}
			denseRanked[i] = denseTopK(snap.Vectors, vec, fetchK)
		}
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			lexErr = err
			return nil
		}
		lexQuery := text
		keywords, err := s.provider.KeywordExtractor().ExtractKeywords(gctx, text)
		if err != nil {
			s.logger.Warn("keyword extraction failed, using raw query", "error", err)
		} else if len(keywords) > 0 {
			lexQuery = strings.Join(keywords, " ")
		}
		for i, snap := range snaps {
			texts := make([]string, len(snap.Records))
			for j := range snap.Records {
				texts[j] = snap.Records[j].Text
			}
			hits := newBM25Corpus(texts).topK(lexQuery, fetchK)
			rows := make([]int, len(hits))
			for j, h := range hits {
				rows[j] = h.Row
			}
			lexRanked[i] = rows
		}
		return nil
	})
	if waitErr := g.Wait(); waitErr != nil {
		return nil, nil, waitErr
	}

	if denseErr != nil && lexErr != nil {
		return nil, nil, fmt.Errorf("%w: dense: %v, lexical: %v", ErrAllPathsFailed, denseErr, lexErr)
	}
	if denseErr != nil {
		s.logger.Warn("dense path failed, degrading to lexical only", "error", denseErr)
	}
	return denseRanked, lexRanked, nil
}

// fuse combines the two ranked lists of one partition with reciprocal rank
// fusion and applies mode filtering and boosts. Candidates come back in
// fusion order (dense list first, then unseen lexical rows) so that equal
// scores keep a stable ordering through the later sort.
func (s *Searcher) fuse(snap *storage.Snapshot, denseRows, lexRows []int, mode Mode, queryText string) []candidate {
	order := make([]int, 0, len(denseRows)+len(lexRows))
	scores := make(map[int]float64, len(denseRows)+len(lexRows))
	accumulate := func(rows []int, weight float64) {
		for rank, row := range rows {
			if _, seen := scores[row]; !seen {
				order = append(order, row)
			}
			scores[row] += weight / (float64(rank) + s.rrfConstant)
		}
	}
	accumulate(denseRows, s.denseWeight)
	accumulate(lexRows, s.lexicalWeight)

	classFilter, filtered := modeClass(mode)
	var out []candidate
	for _, row := range order {
		score := scores[row]
		rec := &snap.Records[row]
		if filtered && rec.DocClass != classFilter {
			continue
		}
		switch {
		case mode == ModeGeneral:
			if b, ok := s.boosts[rec.DocClass]; ok {
				score *= b
			}
		case mode != ModeRegulation:
			score += s.titleBoost * titleOverlap(queryText, rec.LawName)
		}
		out = append(out, candidate{record: rec, score: score})
	}
	return out
}

// modeClass returns the document class a scoped mode filters on.
func modeClass(mode Mode) (core.DocumentClass, bool) {
	switch mode {
	case ModeOrder:
		return core.ClassOrder, true
	case ModeGuideline:
		return core.ClassGuideline, true
	case ModeStandard:
		return core.ClassStandard, true
	default:
		return "", false
	}
}

// titleOverlap returns the fraction of query terms that occur in the law
// name, both sides Thai-digit normalized.
func titleOverlap(queryText, lawName string) float64 {
	terms := tokenize(core.ThaiToArabic(queryText))
	if len(terms) == 0 {
		return 0
	}
	name := strings.ToLower(core.ThaiToArabic(lawName))
	matched := 0
	for _, t := range terms {
		if strings.Contains(name, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// selectResults walks the fused ordering, dropping duplicates and records
// outside their validity window, until k results are kept.
func (s *Searcher) selectResults(candidates []candidate, k int, ref time.Time) []core.SearchResult {
	var results []core.SearchResult
	seen := make(map[string]struct{}, k)
	for _, c := range candidates {
		if len(results) == k {
			break
		}
		if !c.record.ValidOn(ref) {
			continue
		}
		key := c.record.LawName + "\x00" + c.record.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, core.SearchResult{Record: c.record, Score: c.score})
	}
	return results
}

// attachRelated augments regulation results with the temporally valid chunks
// of secondary instruments that cite them.
func (s *Searcher) attachRelated(ctx context.Context, mode Mode, results []core.SearchResult, ref time.Time) error {
	if s.linker == nil || (mode != ModeGeneral && mode != ModeRegulation) {
		return nil
	}
	var needed bool
	for i := range results {
		if results[i].Record.DocClass == core.ClassRegulation {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	snap, err := s.otherStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading others partition for linked documents: %w", err)
	}
	byTitle := make(map[string][]*core.ChunkRecord)
	for i := range snap.Records {
		rec := &snap.Records[i]
		byTitle[core.NormalizeLawName(rec.LawName)] = append(byTitle[core.NormalizeLawName(rec.LawName)], rec)
	}

	for i := range results {
		rec := results[i].Record
		if rec.DocClass != core.ClassRegulation {
			continue
		}
		for _, title := range s.linker.LinkedTitles(rec) {
			for _, related := range byTitle[core.NormalizeLawName(title)] {
				if related.ValidOn(ref) {
					results[i].Related = append(results[i].Related, related)
				}
			}
		}
	}
	return nil
}

// denseTopK ranks snapshot vectors by inner product against the query vector
// and returns up to k row indices, best first.
func denseTopK(vectors [][]float32, query []float32, k int) []int {
	if k <= 0 || len(vectors) == 0 {
		return nil
	}
	type scored struct {
		row   int
		score float64
	}
	hits := make([]scored, 0, len(vectors))
	for i, v := range vectors {
		if len(v) != len(query) {
			continue
		}
		var s float64
		for j := range v {
			s += float64(v[j]) * float64(query[j])
		}
		hits = append(hits, scored{row: i, score: s})
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	rows := make([]int, len(hits))
	for i, h := range hits {
		rows[i] = h.row
	}
	return rows
}
