package service

import (
	"context"
	"strings"
	"unicode"

	"doc-qa-service/internal/domain"
)

// minKeywordLength skips tokens too short to carry meaning.
const minKeywordLength = 2

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"how": {}, "in": {}, "is": {}, "it": {}, "its": {}, "many": {}, "much": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "their": {}, "there": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "whom": {},
	"why": {}, "with": {}, "you": {}, "your": {},
}

// KeywordGenerator is an offline extractive generator: for every question it
// returns the document sentence sharing the most keywords with it. Output is
// deterministic for a given document and question list.
type KeywordGenerator struct {
	logger domain.Logger
}

// NewKeywordGenerator creates a new keyword generator
func NewKeywordGenerator(logger domain.Logger) *KeywordGenerator {
	return &KeywordGenerator{logger: logger}
}

// Generate answers each question with its best-matching sentence, which is
// also reported as the source.
func (g *KeywordGenerator) Generate(ctx context.Context, documentText string, questions []string) ([]domain.GeneratedAnswer, error) {
	sentences := splitSentences(documentText)
	index := make([]map[string]struct{}, len(sentences))
	for i, s := range sentences {
		index[i] = keywordSet(s)
	}

	answers := make([]domain.GeneratedAnswer, len(questions))
	for i, question := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keywords := keywordSet(question)
		best, bestScore := -1, 0
		for j := range sentences {
			score := 0
			for kw := range keywords {
				if _, ok := index[j][kw]; ok {
					score++
				}
			}
			// ties keep the earliest sentence
			if score > bestScore {
				best, bestScore = j, score
			}
		}

		if best < 0 {
			answers[i] = domain.GeneratedAnswer{Answer: AnswerNotFound}
			continue
		}
		answers[i] = domain.GeneratedAnswer{
			Answer: sentences[best],
			Source: sentences[best],
		}
	}

	g.logger.Debug("Keyword answers generated", "questions", len(questions), "sentences", len(sentences))
	return answers, nil
}

// splitSentences breaks text on line breaks and sentence punctuation.
// Page markers are not sentences.
func splitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (strings.HasPrefix(line, "--- Page ") && strings.HasSuffix(line, " ---")) {
			continue
		}

		start := 0
		for i, r := range line {
			if r != '.' && r != '?' && r != '!' {
				continue
			}
			// keep decimals like 3.5 inside one sentence
			if next := i + 1; next < len(line) && line[next] != ' ' {
				continue
			}
			if s := strings.TrimSpace(line[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
		if s := strings.TrimSpace(line[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func keywordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) < minKeywordLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[stemKeyword(w)] = struct{}{}
	}
	return set
}

// stemKeyword folds simple plurals so "widgets" matches "widget".
func stemKeyword(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}
