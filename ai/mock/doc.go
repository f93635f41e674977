// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.ReferenceExtractor, ai.KeywordExtractor, and ai.Provider for use in unit
// tests. The mocks allow tests to run without external AI service dependencies
// and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedQuery(ctx, "test")
//
//	// Custom behavior injection
//	extractor := mock.NewMockExtractor()
//	extractor.ExtractReferencesFunc = func(ctx context.Context, title, text string, mode ai.ExtractMode) (*ai.Extraction, error) {
//	    return &ai.Extraction{Found: true, Clauses: []string{"ข้อ 6"}}, nil
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockExtractor: Finds clause markers with a regex, splits queries on
//     whitespace
//   - MockProvider: Aggregates mock embedder and extractor
package mock
