package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"
)

// jsonTextSeparator joins the values pulled out of a JSON document.
const jsonTextSeparator = "\n"

// JSONDocumentLoader reads an arbitrarily shaped JSON document (company
// profile, product sheet, ...) as one text blob without a fixed schema.
type JSONDocumentLoader struct {
	logger domain.Logger
}

// NewJSONDocumentLoader creates a new JSON document loader
func NewJSONDocumentLoader(logger domain.Logger) *JSONDocumentLoader {
	return &JSONDocumentLoader{logger: logger}
}

// Load flattens every scalar value found at any depth, in file order.
// Object keys are not part of the text.
func (l *JSONDocumentLoader) Load(ctx context.Context, raw []byte) (*domain.DocumentContent, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var probe json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, apperrors.NewParseError(
			"Invalid JSON format in document file.",
			fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err),
		).WithDetails(describeJSONError(err))
	}

	values, err := flattenJSON(raw)
	if err != nil {
		return nil, apperrors.NewParseError(
			"Invalid JSON format in document file.",
			fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err),
		)
	}

	text := strings.Join(values, jsonTextSeparator)
	if strings.TrimSpace(text) == "" {
		return nil, emptyDocumentError()
	}

	l.logger.Debug("JSON document flattened", "values", len(values), "chars", len(text))

	return &domain.DocumentContent{
		Text:      text,
		PageCount: 1,
		Type:      domain.DocumentTypeJSON,
	}, nil
}

// flattenJSON walks the token stream so values keep their encounter order,
// which decoding into a map would lose.
func flattenJSON(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values []string
	if err := walkJSONValue(dec, &values); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return values, nil
}

func walkJSONValue(dec *json.Decoder, values *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				// key
				if _, err := dec.Token(); err != nil {
					return err
				}
				if err := walkJSONValue(dec, values); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				if err := walkJSONValue(dec, values); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unexpected delimiter %q", t)
		}
		// closing delimiter
		_, err := dec.Token()
		return err
	case string:
		if strings.TrimSpace(t) != "" {
			*values = append(*values, t)
		}
	case json.Number:
		*values = append(*values, t.String())
	case bool:
		*values = append(*values, strconv.FormatBool(t))
	case nil:
	}
	return nil
}

func emptyDocumentError() error {
	return apperrors.NewValidationError(
		"The document contains no extractable text. Scanned or image-only documents are not supported.",
		domain.ErrEmptyDocument,
	)
}
