package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamjuris/clauseindex/core"
)

const regulationSample = `ระเบียบสำนักงานการตรวจเงินแผ่นดินว่าด้วยการตรวจสอบการปฏิบัติตามกฎหมาย พ.ศ. 2562

โดยที่เป็นการสมควรกำหนดหลักเกณฑ์การตรวจสอบ

หมวด ๑ บททั่วไป

ข้อ ๑ ระเบียบนี้เรียกว่าระเบียบการตรวจสอบ
ข้อ ๒ ระเบียบนี้ให้ใช้บังคับตั้งแต่วันประกาศ

หมวด ๒ การตรวจสอบ

ส่วนที่ ๑ การวางแผน

ข้อ ๓ ให้เจ้าหน้าที่จัดทำแผนการตรวจสอบ
รายละเอียดของแผนให้เป็นไปตามที่กำหนด
`

func newTestChunker(t *testing.T, opts ...Option) *Chunker {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func TestChunkByClause(t *testing.T) {
	c := newTestChunker(t)

	records, err := c.Chunk(Document{
		Text:    regulationSample,
		Class:   core.ClassRegulation,
		Version: 1,
	})
	require.NoError(t, err)
	require.Len(t, records, 4)

	t.Run("preamble before first clause", func(t *testing.T) {
		assert.Equal(t, "Preamble", records[0].ID)
		assert.Contains(t, records[0].Text, "โดยที่เป็นการสมควร")
	})

	t.Run("clause ids from markers", func(t *testing.T) {
		assert.Equal(t, "ข้อ ๑", records[1].ID)
		assert.Equal(t, "ข้อ ๒", records[2].ID)
		assert.Equal(t, "ข้อ ๓", records[3].ID)
	})

	t.Run("chapter and part stamping", func(t *testing.T) {
		assert.Equal(t, "หมวด ๑ บททั่วไป", records[1].Chapter)
		assert.Empty(t, records[1].Part)
		assert.Equal(t, "หมวด ๒ การตรวจสอบ", records[3].Chapter)
		assert.Equal(t, "ส่วนที่ ๑ การวางแผน", records[3].Part)
	})

	t.Run("law name from first line", func(t *testing.T) {
		for _, r := range records {
			assert.Contains(t, r.LawName, "ระเบียบสำนักงานการตรวจเงินแผ่นดิน")
		}
	})

	t.Run("no content loss", func(t *testing.T) {
		var all strings.Builder
		for _, r := range records {
			all.WriteString(r.Text)
		}
		assert.Contains(t, all.String(), "จัดทำแผนการตรวจสอบ")
		assert.Contains(t, all.String(), "รายละเอียดของแผน")
	})

	t.Run("no empty chunks", func(t *testing.T) {
		for _, r := range records {
			assert.NotEmpty(t, strings.TrimSpace(r.Text))
		}
	})
}

func TestChunkByClauseSubSplit(t *testing.T) {
	c := newTestChunker(t, WithMaxChunkSize(50), WithOverlap(10))

	long := "ข้อ ๕ " + strings.Repeat("หลักเกณฑ์การตรวจสอบ ", 30)
	text := "ระเบียบทดสอบ\n\n" + long + "\n"

	records, err := c.Chunk(Document{Text: text, Class: core.ClassRegulation})
	require.NoError(t, err)
	require.Greater(t, len(records), 1)

	for i, r := range records {
		assert.Equal(t, "ข้อ ๕_p"+strconv.Itoa(i+1), r.ID)
		assert.True(t, r.IsSplit)
		assert.Equal(t, "ข้อ 5", r.BaseClauseID())
	}
}

func TestChunkBySize(t *testing.T) {
	c := newTestChunker(t, WithMaxChunkSize(80), WithOverlap(10))

	text := "แนวทางการตรวจสอบ\n\n" + strings.Repeat("ให้ดำเนินการตามขั้นตอนที่กำหนดไว้ ", 20)
	records, err := c.Chunk(Document{
		Text:  text,
		Class: core.ClassGuideline,
	})
	require.NoError(t, err)
	require.Greater(t, len(records), 1)

	for i, r := range records {
		assert.Equal(t, core.ClassGuideline, r.DocClass)
		assert.Equal(t, i, r.ChunkIndex)
		assert.False(t, r.IsSplit)
		assert.True(t, strings.HasPrefix(r.ID, "Chunk_"))
	}
	assert.Equal(t, "Chunk_1", records[0].ID)
}

func TestChunkTitleOverride(t *testing.T) {
	c := newTestChunker(t)

	records, err := c.Chunk(Document{
		Title: "ชื่อจากเมทาดาทา",
		Text:  regulationSample,
		Class: core.ClassRegulation,
	})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "ชื่อจากเมทาดาทา", records[0].LawName)
}

func TestChunkEmptyText(t *testing.T) {
	c := newTestChunker(t)

	_, err := c.Chunk(Document{Text: "   \n  ", Class: core.ClassRegulation})
	assert.ErrorIs(t, err, core.ErrEmptyText)
}

func TestExtractHeaderAndFooter(t *testing.T) {
	text := "ชื่อกฎหมาย\n\nเนื้อหา\n\nสิ่งที่ส่งมาด้วย แบบรายงาน.pdf\nเอกสารแนบ ตาราง.xlsx\n"

	name, refs, body := extractHeaderAndFooter(text)
	assert.Equal(t, "ชื่อกฎหมาย", name)
	require.Len(t, refs, 2)
	assert.Equal(t, "สิ่งที่ส่งมาด้วย แบบรายงาน.pdf", refs[0])
	assert.NotContains(t, strings.Join(body, "\n"), ".pdf")
}

func TestNewValidation(t *testing.T) {
	_, err := New(WithMaxChunkSize(100), WithOverlap(100))
	assert.Error(t, err)

	_, err = New(WithMaxChunkSize(0))
	assert.Error(t, err)
}
