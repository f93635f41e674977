package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated by content-based
// hashing so that identical content always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentClass identifies the legal rank of a document. It drives both
// partition routing and hierarchy boosting at query time.
type DocumentClass string

const (
	// ClassRegulation is a primary regulation (ระเบียบ), chunked by clause.
	ClassRegulation DocumentClass = "regulation"
	// ClassOrder is an administrative order (คำสั่ง).
	ClassOrder DocumentClass = "order"
	// ClassGuideline is an operational guideline (แนวทาง).
	ClassGuideline DocumentClass = "guideline"
	// ClassStandard is an audit standard (หลักเกณฑ์มาตรฐาน).
	ClassStandard DocumentClass = "standard"
)

// Partition names. Regulations get their own partition because they receive
// distinct ranking treatment; everything else shares one.
const (
	PartitionRegulations = "regulations"
	PartitionOthers      = "others"
)

// ParseDocumentClass maps an upstream class label to a DocumentClass.
// Both the English identifiers and the Thai labels used by the document
// management service are accepted.
func ParseDocumentClass(s string) (DocumentClass, error) {
	switch strings.TrimSpace(s) {
	case string(ClassRegulation), "ระเบียบ":
		return ClassRegulation, nil
	case string(ClassOrder), "คำสั่ง":
		return ClassOrder, nil
	case string(ClassGuideline), "แนวทาง":
		return ClassGuideline, nil
	case string(ClassStandard), "หลักเกณฑ์มาตรฐาน", "มาตรฐาน":
		return ClassStandard, nil
	}
	return "", ErrInvalidDocumentClass
}

// Partition returns the partition name a document of this class is indexed in.
func (c DocumentClass) Partition() string {
	if c == ClassRegulation {
		return PartitionRegulations
	}
	return PartitionOthers
}

// ChunkRecord is the atomic indexed unit: one clause (or one size-bounded
// fragment) of a legal document, plus the metadata needed for temporal
// filtering, versioning, and partition routing.
//
// JSON tags follow the on-disk record-list contract shared with the document
// management service, so partition files round-trip unchanged.
type ChunkRecord struct {
	ID            string        `json:"id"`
	DocumentID    string        `json:"document_id"`
	LawName       string        `json:"law_name"`
	Text          string        `json:"text"`
	DocClass      DocumentClass `json:"doc_type"`
	AnnounceDate  string        `json:"announce_date,omitempty"`
	EffectiveDate string        `json:"effective_date,omitempty"`
	ExpireDate    string        `json:"expire_date,omitempty"`
	Version       int           `json:"version"`
	Chapter       string        `json:"chapter,omitempty"`
	Part          string        `json:"part,omitempty"`
	CharCount     int           `json:"char_count,omitempty"`
	IsSplit       bool          `json:"is_split,omitempty"`
	ChunkIndex    int           `json:"chunk_index"`
}

// BaseClauseID returns the clause identifier with any sub-split suffix
// removed, e.g. "ข้อ 14_p2" -> "ข้อ 14".
func (r *ChunkRecord) BaseClauseID() string {
	return NormalizeClauseID(r.ID)
}

// ValidOn reports whether the record's validity window contains ref.
// Missing or malformed dates default to an open window end.
func (r *ChunkRecord) ValidOn(ref time.Time) bool {
	return Window(r.EffectiveDate, r.ExpireDate).Contains(ref)
}

// DocumentMeta describes one uploaded document version. It is supplied by the
// document management collaborator at chunk-creation time and tracked in the
// metadata repository for version-lineage bookkeeping.
type DocumentMeta struct {
	DocumentID      string
	Title           string
	NormalizedTitle string
	Class           DocumentClass
	Version         int
	IsLatest        bool
	AnnounceDate    string
	EffectiveDate   string
	ExpireDate      string
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// DocumentIDFor derives a stable document identifier from the class, title,
// and version of a document lineage.
func DocumentIDFor(class DocumentClass, title string, version int) string {
	key := string(class) + "|" + NormalizeLawName(title) + "|" + strconv.Itoa(version)
	return strconv.FormatUint(uint64(IDFromContent(key)), 16)
}

// SearchResult pairs a retrieved chunk with its fused relevance score and any
// secondary documents linked through the citation graph.
type SearchResult struct {
	Record  *ChunkRecord
	Score   float64
	Related []*ChunkRecord
}
