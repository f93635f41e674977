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

import "strings"

// repairJSON patches the malformed object keys small extraction models
// sometimes emit, where a key loses its opening quote:
// `{found": true, clauses": []}`. The quote is reinserted in place; all
// other text passes through unchanged.
func repairJSON(s string) string {
	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	i := 0
	for i < len(runes) {
		r := runes[i]
		out.WriteRune(r)
		i++
		if r != '{' && r != ',' {
			continue
		}

		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
			out.WriteRune(runes[i])
			i++
		}

		// A key must open with a letter; anything else, including a
		// properly quoted key, passes through.
		if i == len(runes) || !isASCIILetter(runes[i]) {
			continue
		}
		start := i
		for i < len(runes) && (isASCIILetter(runes[i]) || runes[i] == '_' || runes[i] == ' ') {
			i++
		}
		key := string(runes[start:i])

		// A bare identifier closed by `":` lost its opening quote. The
		// closing quote already in the input is copied on the next pass.
		if i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			out.WriteRune('"')
			out.WriteString(strings.TrimRight(key, " "))
		} else {
			out.WriteString(key)
		}
	}

	return out.String()
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
