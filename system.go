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

// Package clauseindex wires the retrieval engine together: two vector
// partitions, the document metadata repository, the AI provider, and the
// citation graph, all rooted under one data directory.
package clauseindex

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/siamjuris/clauseindex/ai"
	"github.com/siamjuris/clauseindex/ai/openai"
	"github.com/siamjuris/clauseindex/citegraph"
	"github.com/siamjuris/clauseindex/ingestion"
	"github.com/siamjuris/clauseindex/search"
	"github.com/siamjuris/clauseindex/storage"
	"github.com/siamjuris/clauseindex/storage/badger"
	"github.com/siamjuris/clauseindex/storage/partition"
)

// Data directory layout under the system root.
const (
	regulationsDir = "regulations"
	othersDir      = "others"
	metadataDir    = "metadata"
	citationsDir   = "citations"
)

// System owns every component of one clauseindex instance.
type System struct {
	dataDir    string
	regStore   storage.PartitionStore
	otherStore storage.PartitionStore
	backend    *badger.Backend
	documents  *badger.DocumentRepository
	provider   ai.Provider
	logger     *slog.Logger

	mu        sync.Mutex
	searchers []*search.Searcher
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// NewSystem opens or creates a clauseindex instance under dataDir.
func NewSystem(dataDir string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	regStore, err := partition.NewStore(filepath.Join(dataDir, regulationsDir))
	if err != nil {
		return nil, err
	}
	otherStore, err := partition.NewStore(filepath.Join(dataDir, othersDir))
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, metadataDir), false)
	if err != nil {
		return nil, err
	}
	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		documents.Close()
		return nil, err
	}

	return &System{
		dataDir:    dataDir,
		regStore:   regStore,
		otherStore: otherStore,
		backend:    backend,
		documents:  documents,
		provider:   provider,
		logger:     slog.Default().With("component", "system"),
	}, nil
}

// Close shuts the AI provider and the metadata store down. Partition stores
// hold no open resources between transactions.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.documents.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the document metadata repository.
func (s *System) DocumentRepository() storage.DocumentRepository {
	return s.documents
}

// RegulationStore returns the regulations partition store.
func (s *System) RegulationStore() storage.PartitionStore {
	return s.regStore
}

// OthersStore returns the partition store for non-regulation classes.
func (s *System) OthersStore() storage.PartitionStore {
	return s.otherStore
}

// CitationsDir returns the directory the citation graph persists in.
func (s *System) CitationsDir() string {
	return filepath.Join(s.dataDir, citationsDir)
}

// LoadCitationGraph loads the persisted citation graph, or an empty graph
// when none has been built yet.
func (s *System) LoadCitationGraph() (*citegraph.Graph, error) {
	return citegraph.LoadGraph(s.CitationsDir())
}

// NewSearcher builds a hybrid searcher over both partitions. The persisted
// citation graph is linked in automatically; pass search options to override
// tuning defaults.
func (s *System) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	graph, err := s.LoadCitationGraph()
	if err != nil {
		return nil, err
	}
	linked := append([]search.Option{search.WithLinker(citegraph.NewLinker(graph))}, opts...)
	searcher, err := search.NewSearcher(s.regStore, s.otherStore, s.provider, linked...)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.searchers = append(s.searchers, searcher)
	s.mu.Unlock()
	return searcher, nil
}

// NewPipeline builds an ingestion pipeline over both partitions. Writes
// through the pipeline invalidate the query caches of every searcher built
// by this system.
func (s *System) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	wired := append([]ingestion.Option{ingestion.WithAfterWrite(s.invalidateSearchCaches)}, opts...)
	return ingestion.NewPipeline(s.regStore, s.otherStore, s.documents, s.provider, wired...)
}

func (s *System) invalidateSearchCaches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, searcher := range s.searchers {
		searcher.InvalidateCache()
	}
}

// NewGraphBuilder builds a citation-graph builder seeded with the persisted
// graph, so repeated runs merge rather than overwrite.
func (s *System) NewGraphBuilder(opts ...citegraph.BuilderOption) (*citegraph.Builder, error) {
	graph, err := s.LoadCitationGraph()
	if err != nil {
		return nil, err
	}
	return citegraph.NewBuilder(s.provider.ReferenceExtractor(), graph, opts...)
}
