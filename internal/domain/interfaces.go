package domain

import (
	"context"
	"time"
)

// Limits bounds what a single request may carry. It is built once at startup
// and passed by value into every component that enforces it.
type Limits struct {
	MaxQuestions     int
	MaxPDFPages      int
	MaxFileSize      int64
	MaxDocumentChars int
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxQuestions:     20,
		MaxPDFPages:      50,
		MaxFileSize:      10 * 1024 * 1024,
		MaxDocumentChars: 200000,
	}
}

// QuestionParser turns a raw questions file into a QuestionSet.
type QuestionParser interface {
	Parse(raw []byte) (QuestionSet, error)
}

// DocumentLoader turns raw document bytes of one type into DocumentContent.
type DocumentLoader interface {
	Load(ctx context.Context, raw []byte) (*DocumentContent, error)
}

// InputValidator runs every precondition before answer generation.
type InputValidator interface {
	Validate(ctx context.Context, questionsRaw, documentRaw []byte, docType DocumentType) (*ValidatedInput, error)
}

// AnswerGenerator is the external collaborator that answers questions about a document.
// It must return exactly one answer per question, in question order.
type AnswerGenerator interface {
	Generate(ctx context.Context, documentText string, questions []string) ([]GeneratedAnswer, error)
}

// AnswerService handles one question-answering request end to end.
type AnswerService interface {
	Answer(ctx context.Context, questionsRaw, documentRaw []byte, docType DocumentType) ([]QAPair, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetLogFormat() string
	GetLimits() Limits
	GetGenerationTimeout() time.Duration
	GetGCPProjectID() string
	GetGCPLocation() string
	GetGeminiModel() string
	GetAllowedOrigins() []string
}
