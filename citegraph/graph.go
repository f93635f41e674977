package citegraph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const (
	// MasterMapFile maps regulation -> clause -> citing titles.
	MasterMapFile = "master_map.json"

	// CheckMapFile is the reverse index: title -> ["regulation : clause"].
	CheckMapFile = "source_check.json"
)

// Graph is the in-memory citation graph. Safe for concurrent reads; writers
// go through AddLink or Merge.
type Graph struct {
	mu sync.RWMutex

	// master: normalized regulation -> normalized clause -> citing titles.
	master map[string]map[string][]string

	// check: citing title -> "regulation : clause" entries.
	check map[string][]string
}

// NewGraph creates an empty citation graph.
func NewGraph() *Graph {
	return &Graph{
		master: make(map[string]map[string][]string),
		check:  make(map[string][]string),
	}
}

// AddLink records that title cites the clause of regulation. Duplicate links
// are ignored; existing entries are never removed.
func (g *Graph) AddLink(regulation, clause, title string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	clauses, ok := g.master[regulation]
	if !ok {
		clauses = make(map[string][]string)
		g.master[regulation] = clauses
	}
	if !slices.Contains(clauses[clause], title) {
		clauses[clause] = append(clauses[clause], title)
	}

	entry := regulation + " : " + clause
	if !slices.Contains(g.check[title], entry) {
		g.check[title] = append(g.check[title], entry)
	}
}

// CitingTitles returns the titles citing the given clause of a regulation.
// Both arguments must already be normalized.
func (g *Graph) CitingTitles(regulation, clause string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clauses, ok := g.master[regulation]
	if !ok {
		return nil
	}
	return slices.Clone(clauses[clause])
}

// Citations returns the "regulation : clause" entries of a citing title.
func (g *Graph) Citations(title string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.check[title])
}

// Merge unions another graph into this one. Merging a graph into itself is
// a no-op.
func (g *Graph) Merge(other *Graph) {
	if g == other {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()

	for reg, clauses := range other.master {
		for clause, titles := range clauses {
			for _, title := range titles {
				g.AddLink(reg, clause, title)
			}
		}
	}
}

// Len returns the number of regulations with at least one link.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.master)
}

// Save writes both graph files into dir, each through a temp file and rename
// so readers never observe a partial map.
func (g *Graph) Save(dir string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("citegraph: creating %s: %w", dir, err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, MasterMapFile), g.master); err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(dir, CheckMapFile), g.check)
}

// LoadGraph reads both graph files from dir. Missing files yield an empty
// graph, not an error.
func LoadGraph(dir string) (*Graph, error) {
	g := NewGraph()

	if err := readJSON(filepath.Join(dir, MasterMapFile), &g.master); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, CheckMapFile), &g.check); err != nil {
		return nil, err
	}
	if g.master == nil {
		g.master = make(map[string]map[string][]string)
	}
	if g.check == nil {
		g.check = make(map[string][]string)
	}
	return g, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("citegraph: encoding %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("citegraph: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("citegraph: replacing %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("citegraph: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("citegraph: decoding %s: %w", path, err)
	}
	return nil
}
