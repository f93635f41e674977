package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Vectors are L2-normalized with a dimensionality fixed at provider init time.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedQuery generates a vector embedding for a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ReferenceExtractor extracts clause references that a secondary instrument
// (guideline or order) cites from a primary regulation. Only references
// grammatically bound to the named regulation may be returned; references to
// unrelated acts must be ignored and relationships must never be inferred
// across unrelated sentences.
// Implementations must be thread-safe for concurrent use.
type ReferenceExtractor interface {
	// ExtractReferences analyzes a document's title and leading text.
	// Returns Found=false when the document cites no regulation clause.
	ExtractReferences(ctx context.Context, title, text string, mode ExtractMode) (*Extraction, error)
}

// KeywordExtractor extracts search keyword phrases from a user query.
// It is best-effort: callers fall back to the raw query text on error.
type KeywordExtractor interface {
	// ExtractKeywords returns keyword phrases for lexical search.
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// Provider aggregates the external AI services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ReferenceExtractor returns the clause-reference extraction service.
	ReferenceExtractor() ReferenceExtractor

	// KeywordExtractor returns the query keyword extraction service.
	KeywordExtractor() KeywordExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}
