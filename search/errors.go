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

package search

import "errors"

var (
	// ErrStoreRequired is returned when a partition store is not provided.
	ErrStoreRequired = errors.New("partition store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuery is returned when the query text is blank.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrInvalidLimit is returned when the requested result count is not
	// positive.
	ErrInvalidLimit = errors.New("result limit must be positive")

	// ErrAllPathsFailed is returned when both the dense and lexical
	// retrieval paths fail.
	ErrAllPathsFailed = errors.New("all retrieval paths failed")
)
