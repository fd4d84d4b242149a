package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// QuestionParser normalizes every accepted questions-file layout into a QuestionSet.
type QuestionParser struct {
	limits domain.Limits
	logger domain.Logger
}

// NewQuestionParser creates a parser enforcing limits.MaxQuestions.
func NewQuestionParser(limits domain.Limits, logger domain.Logger) *QuestionParser {
	return &QuestionParser{
		limits: limits,
		logger: logger,
	}
}

// Parse decodes raw as JSON and extracts the questions in file order.
// Whitespace-only questions are dropped before the count checks.
func (p *QuestionParser) Parse(raw []byte) (domain.QuestionSet, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, apperrors.NewParseError(
			"Invalid JSON format in questions file.",
			fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err),
		).WithDetails(describeJSONError(err))
	}

	questions, shape, ok := matchQuestionShape(value)
	if !ok {
		return nil, apperrors.NewParseError(
			"Unrecognized questions file structure. Expected a list of strings, an object with a \"questions\" list, or a list of {\"question\": ...} objects.",
			domain.ErrUnrecognizedShape,
		)
	}

	questions = dropBlankQuestions(questions)
	p.logger.Debug("Questions file parsed", "shape", shape, "count", len(questions))

	if len(questions) == 0 {
		return nil, apperrors.NewValidationError(
			"No questions found in the questions file. Please ensure your JSON contains questions.",
			domain.ErrNoQuestions,
		)
	}

	if p.limits.MaxQuestions > 0 && len(questions) > p.limits.MaxQuestions {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf(
				"You submitted %d questions, which exceeds the maximum limit of %d. Please reduce the number of questions.",
				len(questions), p.limits.MaxQuestions,
			),
			domain.ErrTooManyQuestions,
			fmt.Sprintf("limit=%d count=%d", p.limits.MaxQuestions, len(questions)),
		)
	}

	return domain.QuestionSet(questions), nil
}

// describeJSONError adds the byte offset to syntax errors.
func describeJSONError(err error) string {
	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		return fmt.Sprintf("%s at offset %d", syntaxErr.Error(), syntaxErr.Offset)
	}
	return err.Error()
}
