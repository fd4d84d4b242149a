package service

import (
	"context"
	"fmt"
	"strings"

	"doc-qa-service/internal/domain"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/sync/errgroup"
)

// vertexQuestionWorkers bounds concurrent Gemini calls per request.
const vertexQuestionWorkers = 3

const vertexSystemInstruction = `You answer questions using ONLY the document provided by the user.
If the document does not contain the answer, reply with the answer "` + AnswerNotFound + `" and an empty source.
When the answer is found, the source must be a short verbatim quote from the document that supports it.
Do not use outside knowledge.
Reply with a JSON object: {"answer": "<your answer>", "source": "<quote from the document>"}.`

// VertexGenerator answers questions with Gemini on Vertex AI, one call per question.
type VertexGenerator struct {
	client    *genai.Client
	modelName string
	logger    domain.Logger

	// complete sends one prompt and returns the model's text reply.
	complete func(ctx context.Context, prompt string) (string, error)
}

// NewVertexGenerator creates a Vertex AI client for projectID/location.
func NewVertexGenerator(ctx context.Context, projectID, location, modelName string, logger domain.Logger) (*VertexGenerator, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	g := &VertexGenerator{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}
	g.complete = g.generateContent
	return g, nil
}

// Close releases the underlying Vertex AI client.
func (g *VertexGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Generate returns one answer per question, in question order. Any failed
// call fails the whole batch.
func (g *VertexGenerator) Generate(ctx context.Context, documentText string, questions []string) ([]domain.GeneratedAnswer, error) {
	answers := make([]domain.GeneratedAnswer, len(questions))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(vertexQuestionWorkers)
	for i, question := range questions {
		eg.Go(func() error {
			reply, err := g.complete(egCtx, buildQuestionPrompt(documentText, question))
			if err != nil {
				g.logger.Error("Gemini call failed", err, "question_index", i)
				return fmt.Errorf("question %d: %w", i+1, err)
			}
			answers[i] = parseModelReply(reply)
			if answers[i].Answer == "" {
				answers[i] = domain.GeneratedAnswer{Answer: AnswerNotFound}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func (g *VertexGenerator) generateContent(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(vertexSystemInstruction)},
	}
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func buildQuestionPrompt(documentText, question string) string {
	var sb strings.Builder
	sb.Grow(len(documentText) + len(question) + 64)
	sb.WriteString("Document:\n---------------------\n")
	sb.WriteString(documentText)
	sb.WriteString("\n---------------------\n")
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
