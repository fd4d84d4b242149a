package service

import (
	"context"
	"fmt"
	"time"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"
)

// AnswerService handles one question-answering request end to end.
type AnswerService struct {
	gate      domain.InputValidator
	generator domain.AnswerGenerator
	timeout   time.Duration
	logger    domain.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(gate domain.InputValidator, generator domain.AnswerGenerator, timeout time.Duration, logger domain.Logger) *AnswerService {
	return &AnswerService{
		gate:      gate,
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

type generateResult struct {
	answers []domain.GeneratedAnswer
	err     error
}

// Answer validates both inputs, calls the generator once and pairs every
// question with its answer in question order. Validation errors are returned
// as-is and the generator is never called for invalid input.
func (s *AnswerService) Answer(ctx context.Context, questionsRaw, documentRaw []byte, docType domain.DocumentType) ([]domain.QAPair, error) {
	input, err := s.gate.Validate(ctx, questionsRaw, documentRaw, docType)
	if err != nil {
		return nil, err
	}

	questions := []string(input.Questions)
	s.logger.Info("Generating answers",
		"questions", len(questions),
		"doc_type", string(input.Document.Type),
		"pages", input.Document.PageCount,
		"chars", len(input.Document.Text),
	)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resultCh := make(chan generateResult, 1)
	go func() {
		answers, err := s.generator.Generate(genCtx, input.Document.Text, questions)
		resultCh <- generateResult{answers: answers, err: err}
	}()

	var res generateResult
	select {
	case res = <-resultCh:
	case <-genCtx.Done():
		res.err = genCtx.Err()
	}

	if res.err != nil {
		s.logger.Error("Answer generation failed", res.err, "questions", len(questions), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, apperrors.NewGenerationError(
			"Failed to generate answers. Please try again later.",
			fmt.Errorf("%w: %w", domain.ErrGeneratorFailed, res.err),
		)
	}

	if len(res.answers) != len(questions) {
		s.logger.Warn("Generator returned wrong number of answers", "questions", len(questions), "answers", len(res.answers))
		return nil, apperrors.NewGenerationError(
			"Failed to generate answers. Please try again later.",
			domain.ErrAnswerCountMismatch,
		).WithDetails(fmt.Sprintf("questions=%d answers=%d", len(questions), len(res.answers)))
	}

	pairs := make([]domain.QAPair, len(questions))
	for i, q := range questions {
		pairs[i] = domain.QAPair{
			Question: q,
			Answer:   res.answers[i].Answer,
			Source:   NormalizeSource(res.answers[i].Source),
		}
	}

	s.logger.Info("Answers generated", "count", len(pairs), "elapsed_ms", time.Since(start).Milliseconds())
	return pairs, nil
}
