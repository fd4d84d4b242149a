package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"
)

// DocumentLoaderRegistry dispatches a document to the loader for its type.
type DocumentLoaderRegistry struct {
	loaders map[domain.DocumentType]domain.DocumentLoader
	limits  domain.Limits
	logger  domain.Logger
}

// NewDocumentLoaderRegistry creates a registry with the JSON and PDF loaders installed.
func NewDocumentLoaderRegistry(limits domain.Limits, logger domain.Logger) *DocumentLoaderRegistry {
	r := &DocumentLoaderRegistry{
		loaders: make(map[domain.DocumentType]domain.DocumentLoader),
		limits:  limits,
		logger:  logger,
	}
	r.Register(domain.DocumentTypeJSON, NewJSONDocumentLoader(logger))
	r.Register(domain.DocumentTypePDF, NewPDFDocumentLoader(NewPDFProcessor(logger), limits, logger))
	return r
}

// Register installs or replaces the loader for docType.
func (r *DocumentLoaderRegistry) Register(docType domain.DocumentType, loader domain.DocumentLoader) {
	r.loaders[docType] = loader
}

// Load extracts the document text and enforces the extracted-text size limit.
func (r *DocumentLoaderRegistry) Load(ctx context.Context, raw []byte, docType domain.DocumentType) (*domain.DocumentContent, error) {
	loader, ok := r.loaders[docType]
	if !ok {
		return nil, apperrors.NewValidationError(
			"Unsupported document type. Please upload a JSON or PDF document.",
			domain.ErrUnsupportedDocument,
			fmt.Sprintf("type=%s", docType),
		)
	}

	content, err := loader.Load(ctx, raw)
	if err != nil {
		return nil, err
	}

	if r.limits.MaxDocumentChars > 0 {
		if chars := utf8.RuneCountInString(content.Text); chars > r.limits.MaxDocumentChars {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf(
					"Extracted text is too large (%d characters). The maximum is %d characters. Please upload a smaller document.",
					chars, r.limits.MaxDocumentChars,
				),
				domain.ErrDocumentTooLarge,
			)
		}
	}

	return content, nil
}
