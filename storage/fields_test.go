package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamjuris/clauseindex/core"
)

func TestRecordField(t *testing.T) {
	r := core.ChunkRecord{
		ID:         "ข้อ 5",
		DocumentID: "doc-1",
		LawName:    "ระเบียบทดสอบ",
		DocClass:   core.ClassOrder,
		Version:    3,
	}

	tests := []struct {
		field string
		want  string
	}{
		{FieldID, "ข้อ 5"},
		{FieldDocumentID, "doc-1"},
		{FieldLawName, "ระเบียบทดสอบ"},
		{FieldDocType, "order"},
		{FieldVersion, "3"},
	}
	for _, tt := range tests {
		got, err := RecordField(&r, tt.field)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := RecordField(&r, "bogus")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetRecordField(t *testing.T) {
	var r core.ChunkRecord

	require.NoError(t, SetRecordField(&r, FieldExpireDate, "2025-06-30"))
	assert.Equal(t, "2025-06-30", r.ExpireDate)

	require.NoError(t, SetRecordField(&r, FieldVersion, "2"))
	assert.Equal(t, 2, r.Version)

	assert.ErrorIs(t, SetRecordField(&r, FieldVersion, "x"), core.ErrInvalidVersion)
	assert.ErrorIs(t, SetRecordField(&r, FieldID, "new"), ErrUnknownField)
	assert.ErrorIs(t, SetRecordField(&r, FieldDocumentID, "new"), ErrUnknownField)
}
