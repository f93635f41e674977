package badger

import (
	"fmt"

	"github.com/siamjuris/clauseindex/core"
)

// Key prefixes for different data types
const (
	documentPrefix        = "docmeta"
	documentLineagePrefix = "doclin"
)

// makeDocumentKey generates a key for a document version by its document ID.
func makeDocumentKey(documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, documentID))
}

// makeLineageKey generates a composite key for the lineage index.
// Format: prefix:class:normalizedTitle:version (version zero-padded so
// lexicographic iteration yields ascending version order).
func makeLineageKey(class core.DocumentClass, normalizedTitle string, version int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%08d", documentLineagePrefix, class, normalizedTitle, version))
}

// makeLineagePrefix generates the iteration prefix for all versions of a
// lineage.
func makeLineagePrefix(class core.DocumentClass, normalizedTitle string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", documentLineagePrefix, class, normalizedTitle))
}
