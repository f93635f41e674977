package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("ข้อ 14")
		id2 := IDFromContent("ข้อ 14")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("ข้อ 14"), IDFromContent("ข้อ 15"))
	})
}

func TestParseDocumentClass(t *testing.T) {
	tests := []struct {
		input   string
		want    DocumentClass
		wantErr bool
	}{
		{"regulation", ClassRegulation, false},
		{"ระเบียบ", ClassRegulation, false},
		{"order", ClassOrder, false},
		{"คำสั่ง", ClassOrder, false},
		{"guideline", ClassGuideline, false},
		{"แนวทาง", ClassGuideline, false},
		{"standard", ClassStandard, false},
		{"หลักเกณฑ์มาตรฐาน", ClassStandard, false},
		{" ระเบียบ ", ClassRegulation, false},
		{"memo", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDocumentClass(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocumentClass)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentClassPartition(t *testing.T) {
	assert.Equal(t, PartitionRegulations, ClassRegulation.Partition())
	assert.Equal(t, PartitionOthers, ClassOrder.Partition())
	assert.Equal(t, PartitionOthers, ClassGuideline.Partition())
	assert.Equal(t, PartitionOthers, ClassStandard.Partition())
}

func TestDocumentIDFor(t *testing.T) {
	t.Run("stable across title decorations", func(t *testing.T) {
		a := DocumentIDFor(ClassRegulation, "ระเบียบว่าด้วยการตรวจสอบ (ฉบับที่ ๒) พ.ศ. ๒๕๖๘", 2)
		b := DocumentIDFor(ClassRegulation, "ระเบียบว่าด้วยการตรวจสอบ", 2)
		assert.Equal(t, a, b)
	})

	t.Run("version changes id", func(t *testing.T) {
		a := DocumentIDFor(ClassRegulation, "ระเบียบว่าด้วยการตรวจสอบ", 1)
		b := DocumentIDFor(ClassRegulation, "ระเบียบว่าด้วยการตรวจสอบ", 2)
		assert.NotEqual(t, a, b)
	})
}

func TestBaseClauseID(t *testing.T) {
	r := &ChunkRecord{ID: "ข้อ ๑๔_p2"}
	assert.Equal(t, "ข้อ 14", r.BaseClauseID())
}
