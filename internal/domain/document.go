package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// DocumentType identifies how a source document is decoded.
type DocumentType string

const (
	DocumentTypeJSON    DocumentType = "json"
	DocumentTypePDF     DocumentType = "pdf"
	DocumentTypeUnknown DocumentType = "unknown"
)

// DetectDocumentType resolves the document type from the uploaded filename,
// falling back to the declared MIME type when the extension says nothing.
func DetectDocumentType(filename, contentType string) DocumentType {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		return DocumentTypePDF
	case ".json":
		return DocumentTypeJSON
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case mediaType == "application/pdf":
		return DocumentTypePDF
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return DocumentTypeJSON
	default:
		return DocumentTypeUnknown
	}
}

// DocumentContent is the validated text of one uploaded document.
type DocumentContent struct {
	Text      string       `json:"text"`
	PageCount int          `json:"page_count"`
	Type      DocumentType `json:"type"`
}

// Validate checks the invariants every loader must uphold.
func (d *DocumentContent) Validate(limits Limits) error {
	if strings.TrimSpace(d.Text) == "" {
		return &ValidationError{Field: "text", Message: "document text is empty"}
	}
	if d.PageCount < 1 {
		return &ValidationError{Field: "page_count", Message: "page count must be at least 1"}
	}
	if d.Type == DocumentTypePDF && limits.MaxPDFPages > 0 && d.PageCount > limits.MaxPDFPages {
		return &ValidationError{Field: "page_count", Message: "page count exceeds limit"}
	}
	return nil
}
