package search

import (
	"math"
	"slices"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Corpus indexes a set of documents for Okapi BM25 scoring. It is built
// per query from a partition snapshot; corpora for legal partitions are small
// enough that rebuilding beats maintaining an incremental index under the
// store's transactional rewrite model.
type bm25Corpus struct {
	docFreq   map[string]int
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
}

// newBM25Corpus tokenizes every document and builds the term statistics.
func newBM25Corpus(docs []string) *bm25Corpus {
	c := &bm25Corpus{
		docFreq:   make(map[string]int),
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
	}
	total := 0
	for i, doc := range docs {
		terms := tokenize(doc)
		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		c.termFreqs[i] = tf
		c.docLens[i] = len(terms)
		total += len(terms)
		for t := range tf {
			c.docFreq[t]++
		}
	}
	if len(docs) > 0 {
		c.avgDocLen = float64(total) / float64(len(docs))
	}
	return c
}

// score computes the BM25 score of the query terms against document i.
func (c *bm25Corpus) score(terms []string, i int) float64 {
	n := float64(len(c.termFreqs))
	if n == 0 || c.avgDocLen == 0 {
		return 0
	}
	var s float64
	norm := bm25K1 * (1 - bm25B + bm25B*float64(c.docLens[i])/c.avgDocLen)
	for _, t := range terms {
		tf := float64(c.termFreqs[i][t])
		if tf == 0 {
			continue
		}
		df := float64(c.docFreq[t])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		s += idf * tf * (bm25K1 + 1) / (tf + norm)
	}
	return s
}

type lexicalHit struct {
	Row   int
	Score float64
}

// topK ranks every document against the query and returns up to k hits with
// positive scores, best first.
func (c *bm25Corpus) topK(query string, k int) []lexicalHit {
	if k <= 0 {
		return nil
	}
	terms := tokenize(query)
	var hits []lexicalHit
	for i := range c.termFreqs {
		s := c.score(terms, i)
		if s > 0 {
			hits = append(hits, lexicalHit{Row: i, Score: s})
		}
	}
	slices.SortStableFunc(hits, func(a, b lexicalHit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
