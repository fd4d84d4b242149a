package domain

import "errors"

// Domain errors
var (
	ErrInvalidJSON         = errors.New("invalid json")
	ErrUnrecognizedShape   = errors.New("unrecognized questions structure")
	ErrNoQuestions         = errors.New("no questions found")
	ErrTooManyQuestions    = errors.New("exceeds question limit")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrUnreadablePDF       = errors.New("unreadable pdf")
	ErrTooManyPages        = errors.New("exceeds page limit")
	ErrEmptyDocument       = errors.New("document has no extractable text")
	ErrDocumentTooLarge    = errors.New("document text exceeds size limit")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrGeneratorFailed     = errors.New("answer generator failed")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
