package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPDFLoader(limits domain.Limits) *PDFDocumentLoader {
	logger := NewMockLogger()
	return NewPDFDocumentLoader(NewPDFProcessor(logger), limits, logger)
}

func TestPDFProcessor_CountPages(t *testing.T) {
	p := NewPDFProcessor(NewMockLogger())

	for _, n := range []int{1, 3, 60} {
		count, err := p.CountPages(buildTestPDF(numberedPages(n)))
		require.NoError(t, err)
		assert.Equal(t, n, count)
	}
}

func TestPDFProcessor_CountPagesCorrupted(t *testing.T) {
	_, err := NewPDFProcessor(NewMockLogger()).CountPages([]byte("definitely not a pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreadablePDF))
}

func TestPDFProcessor_ExtractPagesCallbacks(t *testing.T) {
	p := NewPDFProcessor(NewMockLogger())

	var metaPages int
	var seen []int
	pages, meta, err := p.ExtractPages(context.Background(), buildTestPDF([]string{"Alpha.", "", "Gamma."}),
		func(m domain.PDFMetadata) error {
			metaPages = m.PageCount
			return nil
		},
		func(page domain.PDFPage) {
			seen = append(seen, page.PageNumber)
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, metaPages)
	assert.Equal(t, 3, meta.PageCount)
	assert.Equal(t, []int{1, 2, 3}, seen)
	require.Len(t, pages, 3)
	assert.Contains(t, pages[0].Text, "Alpha.")
	assert.Equal(t, "", pages[1].Text)
	assert.Contains(t, pages[2].Text, "Gamma.")
}

func TestPDFProcessor_ExtractPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewPDFProcessor(NewMockLogger()).ExtractPages(ctx, buildTestPDF(numberedPages(2)), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFDocumentLoader_JoinsPagesWithMarkers(t *testing.T) {
	content, err := newTestPDFLoader(domain.DefaultLimits()).Load(context.Background(), buildTestPDF([]string{
		"The company was founded in 2020.",
		"Jane Smith is the CEO.",
	}))
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypePDF, content.Type)
	assert.Equal(t, 2, content.PageCount)
	assert.True(t, strings.HasPrefix(content.Text, "--- Page 1 ---\n\n"))
	assert.Contains(t, content.Text, "\n\n--- Page 2 ---\n\n")

	first := strings.Index(content.Text, "founded in 2020")
	second := strings.Index(content.Text, "Jane Smith")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
}

func TestPDFDocumentLoader_PageLimitBoundaries(t *testing.T) {
	loader := newTestPDFLoader(domain.DefaultLimits())

	content, err := loader.Load(context.Background(), buildTestPDF(numberedPages(50)))
	require.NoError(t, err)
	assert.Equal(t, 50, content.PageCount)

	for _, n := range []int{51, 60} {
		_, err := loader.Load(context.Background(), buildTestPDF(numberedPages(n)))
		require.Error(t, err, "pages %d", n)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.True(t, errors.Is(err, domain.ErrTooManyPages))
	}

	_, err = loader.Load(context.Background(), buildTestPDF(numberedPages(60)))
	assert.Equal(t,
		"PDF has 60 pages, which exceeds the maximum allowed limit of 50 pages. Please upload a smaller PDF or split it into multiple files.",
		apperrors.PublicMessage(err),
	)
}

func TestPDFDocumentLoader_PageLimitCheckedBeforeText(t *testing.T) {
	// 60 blank pages: the page limit must win over the empty-text error.
	_, err := newTestPDFLoader(domain.DefaultLimits()).Load(context.Background(), buildTestPDF(make([]string, 60)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTooManyPages))
}

func TestPDFDocumentLoader_CustomPageLimit(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.MaxPDFPages = 2
	loader := newTestPDFLoader(limits)

	_, err := loader.Load(context.Background(), buildTestPDF(numberedPages(2)))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), buildTestPDF(numberedPages(3)))
	require.Error(t, err)
	assert.Contains(t, apperrors.PublicMessage(err), "maximum allowed limit of 2 pages")
}

func TestPDFDocumentLoader_NoExtractableText(t *testing.T) {
	_, err := newTestPDFLoader(domain.DefaultLimits()).Load(context.Background(), buildTestPDF([]string{"", ""}))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
}

func TestPDFDocumentLoader_Corrupted(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte("not a pdf at all"),
		[]byte("%PDF-1.4\ngarbage"),
		nil,
	} {
		_, err := newTestPDFLoader(domain.DefaultLimits()).Load(context.Background(), raw)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))
		assert.Equal(t, "Unable to read PDF file. The file may be corrupted or encrypted.", apperrors.PublicMessage(err))
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Hello world", "Hello world"},
		{"null bytes", "Hel\x00lo", "Hello"},
		{"control chars", "a\x01b\x1fc", "abc"},
		{"keeps whitespace", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"replacement char", "bad�text", "badtext"},
		{"unicode", "café ñandú", "café ñandú"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeText(tt.input))
		})
	}
}

func TestNormalizePageText(t *testing.T) {
	assert.Equal(t, "one\ntwo\n\nthree", normalizePageText("one  \r\ntwo\r\n\r\n\r\n\nthree\n\n"))
	assert.Equal(t, "", normalizePageText(" \n\t\n"))
}

func TestJoinPages(t *testing.T) {
	text, hasText := joinPages([]domain.PDFPage{
		{PageNumber: 1, Text: "first"},
		{PageNumber: 2, Text: ""},
		{PageNumber: 3, Text: "third"},
	})
	assert.True(t, hasText)
	assert.Equal(t, "--- Page 1 ---\n\nfirst\n\n--- Page 2 ---\n\n\n\n--- Page 3 ---\n\nthird", text)

	_, hasText = joinPages([]domain.PDFPage{{PageNumber: 1, Text: " "}})
	assert.False(t, hasText)
}
