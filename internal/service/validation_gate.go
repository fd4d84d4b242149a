package service

import (
	"context"
	"fmt"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"

	"golang.org/x/sync/errgroup"
)

// documentLoader is the registry-level loader the gate depends on.
type documentLoader interface {
	Load(ctx context.Context, raw []byte, docType domain.DocumentType) (*domain.DocumentContent, error)
}

// ValidationGate runs every precondition before any answer is generated.
// Nothing it returns has passed only part of the checks.
type ValidationGate struct {
	parser domain.QuestionParser
	loader documentLoader
	limits domain.Limits
	logger domain.Logger
}

// NewValidationGate creates a new validation gate
func NewValidationGate(parser domain.QuestionParser, loader documentLoader, limits domain.Limits, logger domain.Logger) *ValidationGate {
	return &ValidationGate{
		parser: parser,
		loader: loader,
		limits: limits,
		logger: logger,
	}
}

// Validate parses the questions and loads the document concurrently. When both
// fail, the questions error is the one reported, whichever finished first.
func (g *ValidationGate) Validate(ctx context.Context, questionsRaw, documentRaw []byte, docType domain.DocumentType) (*domain.ValidatedInput, error) {
	if err := g.checkFileSize("Questions", questionsRaw); err != nil {
		return nil, err
	}
	if err := g.checkFileSize("Document", documentRaw); err != nil {
		return nil, err
	}

	var (
		questions   domain.QuestionSet
		document    *domain.DocumentContent
		questionErr error
		documentErr error
	)

	// Both goroutines return nil so neither cancels the other; the errors are
	// ranked after Wait.
	var eg errgroup.Group
	eg.Go(func() error {
		questions, questionErr = g.parser.Parse(questionsRaw)
		return nil
	})
	eg.Go(func() error {
		document, documentErr = g.loader.Load(ctx, documentRaw, docType)
		return nil
	})
	_ = eg.Wait()

	if questionErr != nil {
		if documentErr != nil {
			g.logger.Debug("Document also failed validation", "error", documentErr)
		}
		return nil, questionErr
	}
	if documentErr != nil {
		return nil, documentErr
	}

	if err := questions.Validate(g.limits); err != nil {
		return nil, apperrors.NewInternalError("Question set failed validation", err)
	}
	if err := document.Validate(g.limits); err != nil {
		return nil, apperrors.NewInternalError("Document failed validation", err)
	}

	return &domain.ValidatedInput{
		Questions: questions,
		Document:  document,
	}, nil
}

func (g *ValidationGate) checkFileSize(label string, raw []byte) error {
	if g.limits.MaxFileSize <= 0 || int64(len(raw)) <= g.limits.MaxFileSize {
		return nil
	}
	return apperrors.NewValidationError(
		fmt.Sprintf(
			"%s file size (%s) exceeds maximum of %s",
			label, formatMegabytes(int64(len(raw))), formatMegabytes(g.limits.MaxFileSize),
		),
		domain.ErrFileTooLarge,
	)
}

func formatMegabytes(n int64) string {
	mb := float64(n) / (1024 * 1024)
	if mb == float64(int64(mb)) {
		return fmt.Sprintf("%d MB", int64(mb))
	}
	return fmt.Sprintf("%.2f MB", mb)
}
