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

package chunker

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/siamjuris/clauseindex/core"
)

const (
	// DefaultMaxChunkSize is the rune threshold above which a clause is
	// sub-split.
	DefaultMaxChunkSize = 1100

	// DefaultOverlap is the rune overlap between adjacent sub-split pieces.
	DefaultOverlap = 200

	// PreambleID labels the text before the first clause marker.
	PreambleID = "Preamble"

	// DefaultChapter labels clauses that appear before any chapter heading.
	DefaultChapter = "บททั่วไป"
)

var (
	clausePattern  = regexp.MustCompile(`^(ข้อ\s+[๐-๙0-9]+)`)
	chapterPattern = regexp.MustCompile(`^หมวด\s+[๐-๙0-9]+`)
	partPattern    = regexp.MustCompile(`^ส่วนที่\s+[๐-๙0-9]+`)
)

// Document carries the raw text and metadata of one document version to chunk.
type Document struct {
	// Title overrides the law name extracted from the first line when set.
	Title string

	// Text is the full raw document text.
	Text string

	// Class selects the chunking strategy and the doc_type stamped on records.
	Class core.DocumentClass

	DocumentID    string
	AnnounceDate  string
	EffectiveDate string
	ExpireDate    string
	Version       int
}

// Chunker splits documents into core.ChunkRecord slices.
type Chunker struct {
	maxChunkSize int
	overlap      int
	logger       *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxChunkSize sets the rune threshold for sub-splitting.
func WithMaxChunkSize(n int) Option {
	return func(c *Chunker) error {
		if n <= 0 {
			return fmt.Errorf("chunker: max chunk size must be positive, got %d", n)
		}
		c.maxChunkSize = n
		return nil
	}
}

// WithOverlap sets the rune overlap between adjacent sub-split pieces.
func WithOverlap(n int) Option {
	return func(c *Chunker) error {
		if n < 0 {
			return fmt.Errorf("chunker: overlap cannot be negative, got %d", n)
		}
		c.overlap = n
		return nil
	}
}

// WithLogger sets the logger used by the chunker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			return fmt.Errorf("chunker: logger cannot be nil")
		}
		c.logger = logger.With("component", "chunker")
		return nil
	}
}

// New creates a Chunker with the given options applied over defaults.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxChunkSize: DefaultMaxChunkSize,
		overlap:      DefaultOverlap,
		logger:       slog.Default().With("component", "chunker"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.overlap >= c.maxChunkSize {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than max chunk size %d", c.overlap, c.maxChunkSize)
	}
	return c, nil
}

func (c *Chunker) splitter() textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.maxChunkSize),
		textsplitter.WithChunkOverlap(c.overlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
	)
}

// Chunk splits a document into chunk records. Regulations are chunked by
// clause, every other class by size.
func (c *Chunker) Chunk(doc Document) ([]core.ChunkRecord, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, core.ErrEmptyText
	}
	if doc.Version < 1 {
		doc.Version = 1
	}

	var (
		records []core.ChunkRecord
		err     error
	)
	if doc.Class == core.ClassRegulation {
		records, err = c.chunkByClause(doc)
	} else {
		records, err = c.chunkBySize(doc)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("chunked document",
		"class", doc.Class,
		"chunks", len(records))
	return records, nil
}

// chunkByClause walks the body line by line, starting a new buffer at each
// clause marker and stamping the current chapter and part onto every record.
func (c *Chunker) chunkByClause(doc Document) ([]core.ChunkRecord, error) {
	extName, _, body := extractHeaderAndFooter(doc.Text)
	lawName := doc.Title
	if lawName == "" {
		lawName = extName
	}

	var (
		records     []core.ChunkRecord
		bufferLines []string
	)
	clauseID := PreambleID
	chapter, part := DefaultChapter, ""

	flush := func(chap, prt string) error {
		text := strings.TrimSpace(strings.Join(bufferLines, "\n"))
		if text == "" {
			return nil
		}
		made, err := c.emitClause(doc, lawName, clauseID, text, chap, prt, len(records))
		if err != nil {
			return err
		}
		records = append(records, made...)
		return nil
	}

	for _, line := range body {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if chapterPattern.MatchString(stripped) {
			chapter, part = stripped, ""
		} else if partPattern.MatchString(stripped) {
			part = stripped
		}

		if m := clausePattern.FindStringSubmatch(stripped); m != nil {
			if err := flush(chapter, part); err != nil {
				return nil, err
			}
			clauseID = m[1]
			bufferLines = []string{stripped}
		} else {
			bufferLines = append(bufferLines, stripped)
		}
	}

	if err := flush(chapter, part); err != nil {
		return nil, err
	}
	return records, nil
}

// emitClause turns one buffered clause into one record, or several when the
// clause exceeds the size threshold.
func (c *Chunker) emitClause(doc Document, lawName, clauseID, text, chapter, part string, index int) ([]core.ChunkRecord, error) {
	if utf8.RuneCountInString(text) <= c.maxChunkSize {
		return []core.ChunkRecord{c.record(doc, lawName, clauseID, text, chapter, part, false, index)}, nil
	}

	pieces, err := c.splitter().SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("chunker: splitting clause %q: %w", clauseID, err)
	}

	records := make([]core.ChunkRecord, 0, len(pieces))
	for i, piece := range pieces {
		id := fmt.Sprintf("%s_p%d", clauseID, i+1)
		records = append(records, c.record(doc, lawName, id, piece, chapter, part, true, index+i))
	}
	return records, nil
}

// chunkBySize splits the whole body with the recursive splitter, ignoring
// clause structure.
func (c *Chunker) chunkBySize(doc Document) ([]core.ChunkRecord, error) {
	extName, _, body := extractHeaderAndFooter(doc.Text)
	lawName := doc.Title
	if lawName == "" {
		lawName = extName
	}

	fullText := strings.TrimSpace(strings.Join(body, "\n"))
	if fullText == "" {
		return nil, nil
	}

	pieces, err := c.splitter().SplitText(fullText)
	if err != nil {
		return nil, fmt.Errorf("chunker: splitting document: %w", err)
	}

	records := make([]core.ChunkRecord, 0, len(pieces))
	for i, piece := range pieces {
		id := fmt.Sprintf("Chunk_%d", i+1)
		records = append(records, c.record(doc, lawName, id, piece, DefaultChapter, "", false, i))
	}
	return records, nil
}

func (c *Chunker) record(doc Document, lawName, id, text, chapter, part string, isSplit bool, index int) core.ChunkRecord {
	return core.ChunkRecord{
		ID:            id,
		DocumentID:    doc.DocumentID,
		LawName:       lawName,
		Text:          text,
		DocClass:      doc.Class,
		AnnounceDate:  doc.AnnounceDate,
		EffectiveDate: doc.EffectiveDate,
		ExpireDate:    doc.ExpireDate,
		Version:       doc.Version,
		Chapter:       chapter,
		Part:          part,
		CharCount:     utf8.RuneCountInString(text),
		IsSplit:       isSplit,
		ChunkIndex:    index,
	}
}
