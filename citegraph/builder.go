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

package citegraph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siamjuris/clauseindex/ai"
	"github.com/siamjuris/clauseindex/core"
)

const (
	// actMarker flags citations of primary legislation (Acts), which are
	// out of graph scope.
	actMarker = "พระราชบัญญัติ"

	// revocationPrefix flags orders that merely revoke earlier orders.
	revocationPrefix = "ยกเลิกคำสั่ง"

	// orderTitleMarker identifies administrative orders by title.
	orderTitleMarker = "คำสั่ง"

	// extractTextLimit bounds how much leading text is sent to the
	// extraction service.
	extractTextLimit = 3500

	// revocationScanLimit bounds the prefix scanned for revocation markers.
	revocationScanLimit = 200
)

// genericRegulationNames are placeholder values the extraction service
// returns when the text cites "the regulation" without naming it.
var genericRegulationNames = map[string]bool{
	"":          true,
	"ระเบียบ":   true,
	"ระเบียบฯ":  true,
	"กฎหมาย":    true,
	"ระเบียบสำนักงานการตรวจเงินแผ่นดิน": true,
}

// SourceDocument is one secondary instrument to feed through the builder.
type SourceDocument struct {
	Title string
	Text  string
	Mode  ai.ExtractMode
}

// Builder runs the citation extraction batch job.
type Builder struct {
	extractor         ai.ReferenceExtractor
	graph             *Graph
	defaultRegulation string
	logger            *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithDefaultRegulation overrides the fallback regulation name.
func WithDefaultRegulation(name string) BuilderOption {
	return func(b *Builder) error {
		if name == "" {
			return fmt.Errorf("citegraph: default regulation cannot be empty")
		}
		b.defaultRegulation = name
		return nil
	}
}

// WithLogger sets the logger used by the builder.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		if logger == nil {
			return fmt.Errorf("citegraph: logger cannot be nil")
		}
		b.logger = logger.With("component", "citegraph-builder")
		return nil
	}
}

// NewBuilder creates a builder that merges extractions into graph.
func NewBuilder(extractor ai.ReferenceExtractor, graph *Graph, opts ...BuilderOption) (*Builder, error) {
	if extractor == nil {
		return nil, fmt.Errorf("citegraph: extractor cannot be nil")
	}
	if graph == nil {
		return nil, fmt.Errorf("citegraph: graph cannot be nil")
	}

	b := &Builder{
		extractor:         extractor,
		graph:             graph,
		defaultRegulation: ai.DefaultRegulation,
		logger:            slog.Default().With("component", "citegraph-builder"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Graph returns the graph the builder merges into.
func (b *Builder) Graph() *Graph { return b.graph }

// ProcessDocument extracts citations from one document and merges them into
// the graph. Documents outside graph scope (Acts, revocation orders) are
// skipped without error; extraction failures are returned to the caller.
func (b *Builder) ProcessDocument(ctx context.Context, doc SourceDocument) error {
	if strings.Contains(doc.Title, actMarker) {
		b.logger.Debug("skipping Act document", "title", doc.Title)
		return nil
	}
	if strings.Contains(prefix(doc.Text, revocationScanLimit), revocationPrefix) {
		b.logger.Debug("skipping revocation order", "title", doc.Title)
		return nil
	}

	extraction, err := b.extractor.ExtractReferences(ctx, doc.Title, prefix(doc.Text, extractTextLimit), doc.Mode)
	if err != nil {
		return fmt.Errorf("citegraph: extracting from %q: %w", doc.Title, err)
	}
	if !extraction.Found {
		return nil
	}

	b.merge(extraction, doc.Title)
	return nil
}

// ProcessBatch runs ProcessDocument over a batch, continuing past individual
// extraction failures. Returns the number of documents merged.
func (b *Builder) ProcessBatch(ctx context.Context, docs []SourceDocument) (int, error) {
	merged := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return merged, err
		}
		if err := b.ProcessDocument(ctx, doc); err != nil {
			b.logger.Warn("document extraction failed", "title", doc.Title, "err", err)
			continue
		}
		merged++
	}
	return merged, nil
}

// merge validates one extraction and unions it into the graph.
func (b *Builder) merge(extraction *ai.Extraction, sourceTitle string) {
	regName := strings.TrimSpace(extraction.Regulation)
	if genericRegulationNames[regName] {
		regName = b.defaultRegulation
	}

	regKey := core.NormalizeLawName(regName)
	if strings.Contains(regKey, actMarker) {
		b.logger.Debug("discarding Act extraction", "title", sourceTitle, "regulation", regName)
		return
	}

	titleClean := strings.TrimSpace(core.ThaiToArabic(sourceTitle))
	clauses := ExpandClauses(extraction.Clauses)

	// Orders open with boilerplate numbered items; when an order yields many
	// clauses, ข้อ 1-3 are list artifacts rather than citations.
	isOrder := strings.Contains(sourceTitle, orderTitleMarker)
	kept := 0
	for _, clause := range clauses {
		if isOrder && len(clauses) > 3 &&
			(clause == "ข้อ 1" || clause == "ข้อ 2" || clause == "ข้อ 3") {
			continue
		}
		b.graph.AddLink(regKey, clause, titleClean)
		kept++
	}

	b.logger.Debug("merged extraction",
		"title", sourceTitle,
		"regulation", regKey,
		"clauses", kept)
}

func prefix(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
