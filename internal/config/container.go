package config

import (
	"context"
	"fmt"
	"io"

	"doc-qa-service/internal/domain"
	"doc-qa-service/internal/service"
	"doc-qa-service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	QuestionParser *service.QuestionParser
	Loaders        *service.DocumentLoaderRegistry
	Gate           *service.ValidationGate
	Generator      domain.AnswerGenerator
	AnswerService  *service.AnswerService

	closers []io.Closer
}

// NewContainer creates a new dependency injection container.
// Without GCP_PROJECT_ID the offline keyword generator answers questions.
func NewContainer(ctx context.Context) (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel(), config.GetLogFormat())
	limits := config.GetLimits()

	parser := service.NewQuestionParser(limits, appLogger)
	loaders := service.NewDocumentLoaderRegistry(limits, appLogger)
	gate := service.NewValidationGate(parser, loaders, limits, appLogger)

	c := &Container{
		Config:         config,
		Logger:         appLogger,
		QuestionParser: parser,
		Loaders:        loaders,
		Gate:           gate,
	}

	if projectID := config.GetGCPProjectID(); projectID != "" {
		vertex, err := service.NewVertexGenerator(ctx, projectID, config.GetGCPLocation(), config.GetGeminiModel(), appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize answer generator: %w", err)
		}
		c.Generator = vertex
		c.closers = append(c.closers, vertex)
		appLogger.Info("Using Vertex AI answer generator", "project", projectID, "location", config.GetGCPLocation(), "model", config.GetGeminiModel())
	} else {
		c.Generator = service.NewKeywordGenerator(appLogger)
		appLogger.Warn("GCP_PROJECT_ID not set; using offline keyword answer generator")
	}

	c.AnswerService = service.NewAnswerService(gate, c.Generator, config.GetGenerationTimeout(), appLogger)
	return c, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// Close releases clients held by the container.
func (c *Container) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
