package citegraph

import (
	"github.com/siamjuris/clauseindex/core"
)

// Linker is the query-time read side of the citation graph.
type Linker struct {
	graph *Graph
}

// NewLinker creates a linker over a loaded graph.
func NewLinker(graph *Graph) *Linker {
	if graph == nil {
		graph = NewGraph()
	}
	return &Linker{graph: graph}
}

// LinkedTitles returns the titles of secondary instruments citing this
// regulation chunk's clause. The law name is normalized so every edition of
// a regulation resolves to the same graph key, and sub-split chunk ids map
// back to their base clause.
func (l *Linker) LinkedTitles(record *core.ChunkRecord) []string {
	if record == nil {
		return nil
	}
	regKey := core.NormalizeLawName(record.LawName)
	clause := record.BaseClauseID()
	return l.graph.CitingTitles(regKey, clause)
}
