package ai

// ExtractMode selects the extraction contract for a document class.
// Orders use a stricter contract than guidelines: a clause may only be
// extracted when it is grammatically attached to the regulation name.
type ExtractMode string

const (
	// ModeGuideline extracts clause links from operational guidelines.
	ModeGuideline ExtractMode = "guideline"
	// ModeOrder extracts cited legal-basis clauses from administrative orders.
	ModeOrder ExtractMode = "order"
)

// Extraction is the validated result of a reference-extraction call.
type Extraction struct {
	// Found reports whether the document cites any regulation clause.
	Found bool

	// Regulation is the cited regulation's name. Empty when the service did
	// not name one; callers substitute the configured default regulation.
	Regulation string

	// Clauses holds the raw clause references, e.g. "ข้อ 36 (2) (3)".
	// Compound references are expanded downstream by the citation graph
	// builder, not here.
	Clauses []string
}
