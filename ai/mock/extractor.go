package mock

import (
	"context"
	"regexp"
	"strings"

	"github.com/siamjuris/clauseindex/ai"
)

var mockClausePattern = regexp.MustCompile(`ข้อ\s*[0-9๐-๙]+(?:\s*\([0-9๐-๙]+\))?`)

// MockExtractor is a test double for ai.ReferenceExtractor and
// ai.KeywordExtractor. It allows custom behavior injection via function
// fields.
type MockExtractor struct {
	// ExtractReferencesFunc is called by ExtractReferences if set.
	// If nil, uses default regex-based behavior.
	ExtractReferencesFunc func(ctx context.Context, title, text string, mode ai.ExtractMode) (*ai.Extraction, error)

	// ExtractKeywordsFunc is called by ExtractKeywords if set.
	// If nil, splits the query on whitespace.
	ExtractKeywordsFunc func(ctx context.Context, query string) ([]string, error)

	callCount int
}

// NewMockExtractor creates a mock extractor with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// ExtractReferences scans the text for clause markers with a simple regex.
// Tests that need specific extractions should inject ExtractReferencesFunc.
func (m *MockExtractor) ExtractReferences(ctx context.Context, title, text string, mode ai.ExtractMode) (*ai.Extraction, error) {
	m.callCount++

	if m.ExtractReferencesFunc != nil {
		return m.ExtractReferencesFunc(ctx, title, text, mode)
	}

	clauses := mockClausePattern.FindAllString(text, -1)
	return &ai.Extraction{
		Found:   len(clauses) > 0,
		Clauses: clauses,
	}, nil
}

// ExtractKeywords splits the query on whitespace.
func (m *MockExtractor) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	m.callCount++

	if m.ExtractKeywordsFunc != nil {
		return m.ExtractKeywordsFunc(ctx, query)
	}

	fields := strings.Fields(query)
	if len(fields) == 0 {
		return []string{query}, nil
	}
	return fields, nil
}

// CallCount returns the number of times any method was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractReferencesFunc = nil
	m.ExtractKeywordsFunc = nil
}
