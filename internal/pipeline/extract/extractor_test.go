package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	apperrors "github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

func newTestExtractor() *Extractor {
	cfg := DefaultConfig()
	cfg.OCREnabled = false
	return New(cfg, logging.NewNopLogger())
}

func TestExtractRejectsOversizedDocument(t *testing.T) {
	t.Parallel()

	e := New(Config{MaxFileSizeBytes: 10}, logging.NewNopLogger())
	_, err := e.Extract(context.Background(), "big.txt", bytes.Repeat([]byte("a"), 11))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDocumentTooLarge, apperrors.GetCode(err))
}

func TestExtractRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	_, err := newTestExtractor().Extract(context.Background(), "empty.txt", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyDocument, apperrors.GetCode(err))
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := newTestExtractor().Extract(context.Background(), "scan.png", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedFormat, apperrors.GetCode(err))
}

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	text := "SECTION 1. Liquidation Preference\n\n" +
		"The holders of Series A Preferred shall be entitled to a 2x participating liquidation preference over common stock holders.\n\n" +
		"SECTION 2. Anti-Dilution\n\n" +
		"Full ratchet anti-dilution protection shall apply to all preferred shares without exception in any down round.\n\n" +
		"SECTION 3. Board Composition\n\n" +
		"The investor shall have the right to appoint a majority of the members of the board of directors of the company."

	doc, err := newTestExtractor().Extract(context.Background(), "/tmp/upload/series-a.txt", []byte(text))
	require.NoError(t, err)

	assert.Equal(t, "series-a.txt", doc.Filename)
	assert.Equal(t, agreement.FormatTXT, doc.Format)
	assert.Equal(t, agreement.ExtractionPlain, doc.ExtractionMethod)
	assert.Greater(t, doc.WordCount, 30)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "SECTION 1. Liquidation Preference", doc.Sections[0].Title)
	assert.Contains(t, doc.Sections[1].Text, "Full ratchet")
}

func TestExtractPlainTextParagraphFallback(t *testing.T) {
	t.Parallel()

	text := "This agreement is made between the founders and the investors on the date written below for good consideration.\n\n" +
		"short\n\n" +
		"The investors shall receive preferred shares carrying the rights and preferences described in the attached exhibits."

	doc, err := newTestExtractor().Extract(context.Background(), "deal.txt", []byte(text))
	require.NoError(t, err)

	// No headings: paragraphs over the minimum length become sections.
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, 0, doc.Sections[0].Position)
	assert.Equal(t, 1, doc.Sections[1].Position)
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCXParagraphsAndTables(t *testing.T) {
	t.Parallel()

	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>SECTION 1. Vesting Schedule</w:t></w:r></w:p>
    <w:p><w:r><w:t>Founder shares shall vest over a four year period with a one year cliff applying to all founders equally.</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Founder</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Shares</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Alice</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>500000</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

	doc, err := newTestExtractor().Extract(context.Background(), "vesting.docx", buildDOCX(t, docXML))
	require.NoError(t, err)

	assert.Equal(t, agreement.ExtractionDOCX, doc.ExtractionMethod)
	assert.Contains(t, doc.Text, "SECTION 1. Vesting Schedule")
	assert.Contains(t, doc.Text, "[TABLE]")
	assert.Contains(t, doc.Text, "Founder | Shares")
	assert.Contains(t, doc.Text, "Alice | 500000")
	assert.Contains(t, doc.Text, "[/TABLE]")
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<w:styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = newTestExtractor().Extract(context.Background(), "broken.docx", buf.Bytes())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExtractionFailed, apperrors.GetCode(err))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	dirty := "Line  one\t\twith   spaces   \r\n\r\n\r\n\r\nLine two\x00\x07"
	got := CleanText(dirty)
	assert.Equal(t, "Line one with spaces\n\nLine two", got)
}

func TestStripPageMarkers(t *testing.T) {
	t.Parallel()

	text := "intro\n--- Page 1 ---\nbody\n--- Page 2 ---\nmore"
	got := stripPageMarkers(text)
	assert.NotContains(t, got, "--- Page")
	assert.Contains(t, got, "body")
}

func TestIsHeading(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want bool
	}{
		{"SECTION 3. Board Matters", true},
		{"Article IV", true},
		{"2. Liquidation Preference", true},
		{"REPRESENTATIONS AND WARRANTIES", true},
		{"Drag-Along Rights", false},
		{"Vesting Provisions", true},
		{"the parties hereby agree as follows", false},
		{"", false},
		{strings.Repeat("A", 201), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isHeading(tc.line), "line %q", tc.line)
	}
}
