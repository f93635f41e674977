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

// Package ai provides abstractions for AI services used in ClauseIndex.
//
// This package defines interfaces for AI operations including text embeddings,
// legal reference extraction, and query keyword extraction. It follows the
// dependency inversion principle, allowing the core domain and business logic
// to depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - ReferenceExtractor: Extracts regulation and clause citations from
//     legal document text
//   - KeywordExtractor: Distills search queries into lexical keywords
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors in the
// mock package return concrete types so tests can inject behavior and assert
// on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedQuery(ctx, "หลักเกณฑ์การเบิกจ่าย")
//	refs, err := provider.ReferenceExtractor().ExtractReferences(ctx, title, text, ai.ModeGuideline)
package ai
