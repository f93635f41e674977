package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing opening quote after brace",
			input: `{found": true}`,
			want:  `{"found": true}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"found": true, clauses": ["ข้อ 5"]}`,
			want:  `{"found": true, "clauses": ["ข้อ 5"]}`,
		},
		{
			name:  "valid json untouched",
			input: `{"found": true, "clauses": []}`,
			want:  `{"found": true, "clauses": []}`,
		},
		{
			name:  "unquoted value is not a key",
			input: `{"regulation": x, "clauses": []}`,
			want:  `{"regulation": x, "clauses": []}`,
		},
		{
			name:  "thai text inside strings untouched",
			input: `{"regulation": "ระเบียบ, ข้อ"}`,
			want:  `{"regulation": "ระเบียบ, ข้อ"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}
