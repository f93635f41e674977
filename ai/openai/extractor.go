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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/siamjuris/clauseindex/ai"
)

// Extractor implements ai.ReferenceExtractor and ai.KeywordExtractor using
// OpenAI-compatible chat APIs.
type Extractor struct {
	client            llms.Model
	defaultRegulation string
	logger            *slog.Logger
}

// extraction is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type extraction struct {
	Found      bool     `json:"found"`
	Regulation string   `json:"regulation"`
	Clauses    []string `json:"clauses"`
}

// keywordResponse is the wrapper structure for the keyword LLM response.
type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client:            client,
		defaultRegulation: config.DefaultRegulation,
		logger:            slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new reference extractor using the provided configuration.
//
// Returns ai.ReferenceExtractor interface to enforce abstraction.
func NewExtractor(config *ai.Config) (ai.ReferenceExtractor, error) {
	return newExtractor(config)
}

// generate sends a system+user prompt pair and decodes the JSON response into
// out, retrying up to 3 times on malformed JSON.
func (e *Extractor) generate(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return fmt.Errorf("extractor: model returned no choices")
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
	return lastErr
}

// ExtractReferences extracts the regulation and clause citations from a legal
// document. The mode selects the prompt contract: guideline documents link
// their subject clauses, order documents cite their legal basis.
func (e *Extractor) ExtractReferences(ctx context.Context, title, text string, mode ai.ExtractMode) (*ai.Extraction, error) {
	systemPrompt := buildReferencePrompt(string(mode), e.defaultRegulation)
	userPrompt := fmt.Sprintf("Title: %q\nText: %q", title, text)

	var result extraction
	if err := e.generate(ctx, systemPrompt, userPrompt, &result); err != nil {
		return nil, err
	}

	ext := &ai.Extraction{
		Found:      result.Found,
		Regulation: strings.TrimSpace(result.Regulation),
		Clauses:    make([]string, 0, len(result.Clauses)),
	}
	for _, c := range result.Clauses {
		c = strings.TrimSpace(c)
		if c != "" {
			ext.Clauses = append(ext.Clauses, c)
		}
	}

	e.logger.Debug("extracted references",
		"title", title,
		"mode", mode,
		"found", ext.Found,
		"clauses", len(ext.Clauses))

	return ext, nil
}

// ExtractKeywords distills a search query into lexical keywords for the
// keyword retrieval path. Falls back to the raw query on failure so the
// caller can still search.
func (e *Extractor) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	var result keywordResponse
	if err := e.generate(ctx, keywordPromptTemplate, query, &result); err != nil {
		e.logger.Warn("keyword extraction failed, using raw query", "err", err)
		return []string{query}, nil
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	if len(keywords) == 0 {
		return []string{query}, nil
	}

	e.logger.Debug("extracted keywords", "count", len(keywords))
	return keywords, nil
}
