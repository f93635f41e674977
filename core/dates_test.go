package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name      string
		effective string
		expire    string
		ref       string
		want      bool
	}{
		{"inside window", "2023-01-01", "2025-01-01", "2024-06-01", true},
		{"after expiry", "2023-01-01", "2025-01-01", "2026-01-01", false},
		{"before effective", "2023-01-01", "2025-01-01", "2022-06-01", false},
		{"on effective boundary", "2023-01-01", "2025-01-01", "2023-01-01", true},
		{"on expire boundary", "2023-01-01", "2025-01-01", "2025-01-01", true},
		{"open expire", "2023-01-01", "", "2099-01-01", true},
		{"open effective", "", "2025-01-01", "1990-01-01", true},
		{"fully open", "", "", "2024-06-01", true},
		{"malformed expire treated as open", "2023-01-01", "not-a-date", "2099-01-01", true},
		{"malformed effective treated as open", "garbage", "2025-01-01", "1990-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window(tt.effective, tt.expire)
			assert.Equal(t, tt.want, w.Contains(mustDate(t, tt.ref)))
		})
	}
}

func TestChunkRecordValidOn(t *testing.T) {
	r := &ChunkRecord{EffectiveDate: "2023-01-01", ExpireDate: "2025-01-01"}
	assert.True(t, r.ValidOn(mustDate(t, "2024-06-01")))
	assert.False(t, r.ValidOn(mustDate(t, "2026-01-01")))
}
