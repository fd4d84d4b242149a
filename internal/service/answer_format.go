package service

import (
	"encoding/json"
	"strings"

	"doc-qa-service/internal/domain"
)

// AnswerNotFound is returned when the document does not contain an answer.
const AnswerNotFound = "Answer not found in document"

// NormalizeSource maps the generator's "no source" markers to an empty string.
func NormalizeSource(source string) string {
	s := strings.TrimSpace(source)
	switch strings.ToLower(s) {
	case "", "n/a", "none", "null":
		return ""
	}
	return s
}

// ParseAnswerText reads a plain-text "Answer: ... Source: ..." reply. Text
// without both labels is taken as the answer with no source.
func ParseAnswerText(text string) domain.GeneratedAnswer {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "Answer:") || !strings.Contains(text, "Source:") {
		return domain.GeneratedAnswer{Answer: text}
	}

	answer, source, _ := strings.Cut(text, "Source:")
	answer = strings.TrimSpace(strings.Replace(answer, "Answer:", "", 1))
	return domain.GeneratedAnswer{
		Answer: answer,
		Source: NormalizeSource(source),
	}
}

// parseModelReply accepts a JSON object reply, optionally inside a markdown
// code fence, and falls back to the plain-text format.
func parseModelReply(text string) domain.GeneratedAnswer {
	body := stripCodeFence(text)

	var reply domain.GeneratedAnswer
	if err := json.Unmarshal([]byte(body), &reply); err == nil && strings.TrimSpace(reply.Answer) != "" {
		return domain.GeneratedAnswer{
			Answer: strings.TrimSpace(reply.Answer),
			Source: NormalizeSource(reply.Source),
		}
	}
	return ParseAnswerText(text)
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
