package domain

import "strings"

// QuestionSet is the ordered list of questions taken from one questions file.
// Answers are aligned with it by position.
type QuestionSet []string

// Validate checks the non-empty, non-blank and maximum-count invariants.
func (q QuestionSet) Validate(limits Limits) error {
	if len(q) == 0 {
		return &ValidationError{Field: "questions", Message: "at least one question is required"}
	}
	if limits.MaxQuestions > 0 && len(q) > limits.MaxQuestions {
		return &ValidationError{Field: "questions", Message: "too many questions"}
	}
	for _, question := range q {
		if strings.TrimSpace(question) == "" {
			return &ValidationError{Field: "questions", Message: "questions cannot be blank"}
		}
	}
	return nil
}

// ValidatedInput is what the validation gate hands to the orchestrator.
type ValidatedInput struct {
	Questions QuestionSet
	Document  *DocumentContent
}

// GeneratedAnswer is one generator output, positionally matched to a question.
type GeneratedAnswer struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

// QAPair is one entry of a successful response.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}

// AnswerResponse is the success payload.
type AnswerResponse struct {
	QAPairs []QAPair `json:"qa_pairs"`
}

// ErrorResponse is the failure payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
