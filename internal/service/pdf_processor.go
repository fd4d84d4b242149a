package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const defaultPageTimeout = 30 * time.Second

var disablePDFCPUConfigDir sync.Once

// PDFProcessor counts and extracts PDF pages.
type PDFProcessor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	// pdfcpu would otherwise create a config directory under $HOME on first use.
	disablePDFCPUConfigDir.Do(api.DisableConfigDir)
	return &PDFProcessor{
		logger:      logger,
		pageTimeout: defaultPageTimeout,
	}
}

// CountPages returns the total page count without extracting any text.
// pdfcpu reads only the page tree; MuPDF is the fallback for files pdfcpu rejects.
func (p *PDFProcessor) CountPages(pdfBytes []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(pdfBytes), conf)
	if err == nil {
		return count, nil
	}
	p.logger.Debug("pdfcpu could not count pages, falling back to MuPDF", "error", err)

	doc, ferr := fitz.NewFromMemory(pdfBytes)
	if ferr != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUnreadablePDF, ferr)
	}
	defer doc.Close()
	if doc.NumPage() < 1 {
		return 0, fmt.Errorf("%w: no pages", domain.ErrUnreadablePDF)
	}
	return doc.NumPage(), nil
}

// ExtractPages extracts text and metadata from a PDF file.
// - onMeta: called once after metadata is available (page_count, author, title)
// - onPage: called after each page (1-indexed)
// Every page yields an entry, empty when the page has no text.
func (p *PDFProcessor) ExtractPages(
	ctx context.Context,
	pdfBytes []byte,
	onMeta func(meta domain.PDFMetadata) error,
	onPage func(page domain.PDFPage),
) ([]domain.PDFPage, domain.PDFMetadata, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, domain.PDFMetadata{}, fmt.Errorf("%w: %w", domain.ErrUnreadablePDF, err)
	}
	// A timed-out page extraction keeps running in MuPDF; the document is
	// released only once every page goroutine has returned.
	var inFlight sync.WaitGroup
	defer func() {
		go func() {
			inFlight.Wait()
			doc.Close()
		}()
	}()

	docMetadata := doc.Metadata()
	metadata := domain.PDFMetadata{
		PageCount: doc.NumPage(),
		FileSize:  int64(len(pdfBytes)),
		Title:     strings.TrimSpace(docMetadata["title"]),
		Author:    strings.TrimSpace(docMetadata["author"]),
	}

	if onMeta != nil {
		if err := onMeta(metadata); err != nil {
			return nil, metadata, err
		}
	}

	type pageResult struct {
		text string
		err  error
	}

	numPages := metadata.PageCount
	pages := make([]domain.PDFPage, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, metadata, err
		}

		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		inFlight.Add(1)
		go func(idx int) {
			defer inFlight.Done()
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var text string
		select {
		case res := <-resultCh:
			text, err = res.text, res.err
		case <-time.After(p.pageTimeout):
			p.logger.Warn("PDF page extraction timeout; using empty page", "page", pageNum+1, "total", numPages, "timeout_sec", int(p.pageTimeout.Seconds()))
			err = fmt.Errorf("timeout after %v", p.pageTimeout)
		case <-ctx.Done():
			return nil, metadata, ctx.Err()
		}
		if err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", err)
			text = ""
		}

		page := domain.PDFPage{
			PageNumber: pageNum + 1,
			Text:       normalizePageText(sanitizeText(text)),
		}
		pages = append(pages, page)
		if onPage != nil {
			onPage(page)
		}
	}

	return pages, metadata, nil
}

// normalizePageText unifies line endings and squeezes runs of blank lines.
func normalizePageText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// sanitizeText removes NULs, stray control characters and surrogates so the
// text is safe to JSON-encode and to forward to the generator.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r <= 0x10FFFF && (r < 0xD800 || r > 0xDFFF) && r != 0xFFFD:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// PDFDocumentLoader enforces the page limit and joins page text with markers.
type PDFDocumentLoader struct {
	processor *PDFProcessor
	limits    domain.Limits
	logger    domain.Logger
}

// NewPDFDocumentLoader creates a new PDF document loader
func NewPDFDocumentLoader(processor *PDFProcessor, limits domain.Limits, logger domain.Logger) *PDFDocumentLoader {
	return &PDFDocumentLoader{
		processor: processor,
		limits:    limits,
		logger:    logger,
	}
}

// Load rejects PDFs over the page limit before any text is extracted.
func (l *PDFDocumentLoader) Load(ctx context.Context, raw []byte) (*domain.DocumentContent, error) {
	pageCount, err := l.processor.CountPages(raw)
	if err != nil {
		return nil, unreadablePDFError(err)
	}
	if err := l.checkPageLimit(pageCount); err != nil {
		return nil, err
	}

	pages, metadata, err := l.processor.ExtractPages(ctx, raw, func(meta domain.PDFMetadata) error {
		// MuPDF may repair a damaged page tree and see more pages than pdfcpu did.
		return l.checkPageLimit(meta.PageCount)
	}, nil)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, unreadablePDFError(err)
	}

	if metadata.PageCount != pageCount {
		l.logger.Warn("PDF page count differs between readers", "pdfcpu", pageCount, "mupdf", metadata.PageCount)
	}

	text, hasText := joinPages(pages)
	if !hasText {
		l.logger.Info("PDF has no extractable text", "page_count", len(pages))
		return nil, emptyDocumentError()
	}

	l.logger.Info("PDF document extracted", "page_count", len(pages), "chars", len(text), "title", metadata.Title)

	return &domain.DocumentContent{
		Text:      text,
		PageCount: len(pages),
		Type:      domain.DocumentTypePDF,
	}, nil
}

func (l *PDFDocumentLoader) checkPageLimit(pageCount int) error {
	if l.limits.MaxPDFPages > 0 && pageCount > l.limits.MaxPDFPages {
		return apperrors.NewValidationError(
			fmt.Sprintf(
				"PDF has %d pages, which exceeds the maximum allowed limit of %d pages. Please upload a smaller PDF or split it into multiple files.",
				pageCount, l.limits.MaxPDFPages,
			),
			domain.ErrTooManyPages,
			fmt.Sprintf("limit=%d count=%d", l.limits.MaxPDFPages, pageCount),
		)
	}
	return nil
}

// joinPages concatenates pages in order, each behind a "--- Page N ---" marker,
// so the last words of one page never run into the first words of the next.
func joinPages(pages []domain.PDFPage) (string, bool) {
	var sb strings.Builder
	hasText := false
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n\n", page.PageNumber)
		sb.WriteString(page.Text)
		if strings.TrimSpace(page.Text) != "" {
			hasText = true
		}
	}
	return sb.String(), hasText
}

func unreadablePDFError(err error) error {
	return apperrors.NewParseError(
		"Unable to read PDF file. The file may be corrupted or encrypted.",
		err,
	)
}
