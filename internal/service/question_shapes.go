package service

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// questionShape is one accepted layout of a questions file. Matching is pure:
// a shape either recognizes the decoded JSON value and returns its questions in
// file order, or reports no match so the next shape can be tried.
type questionShape struct {
	name    string
	schema  *jsonschema.Schema
	extract func(value interface{}) []string
}

func (s questionShape) match(value interface{}) ([]string, bool) {
	if err := s.schema.Validate(value); err != nil {
		return nil, false
	}
	return s.extract(value), true
}

const (
	stringArraySchema = `{
		"type": "array",
		"items": {"type": "string"}
	}`
	questionsObjectSchema = `{
		"type": "object",
		"required": ["questions"],
		"properties": {
			"questions": {"type": "array", "items": {"type": "string"}}
		}
	}`
	questionObjectArraySchema = `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["question"],
			"properties": {"question": {"type": "string"}}
		}
	}`
	// Older clients send mixed lists (plain strings next to {"question": ...}
	// objects, with nulls for removed rows), either bare or under "questions".
	mixedItemsSchema = `{
		"type": "array",
		"items": {
			"anyOf": [
				{"type": "string"},
				{"type": "null"},
				{"type": "object", "required": ["question"], "properties": {"question": {"type": "string"}}}
			]
		}
	}`
	mixedQuestionsSchema = `{
		"anyOf": [
			{"$ref": "#/$defs/items"},
			{
				"type": "object",
				"required": ["questions"],
				"properties": {"questions": {"$ref": "#/$defs/items"}}
			}
		],
		"$defs": {"items": ` + mixedItemsSchema + `}
	}`
)

// questionShapes lists the accepted layouts in priority order.
var questionShapes = []questionShape{
	{
		name:    "string_array",
		schema:  jsonschema.MustCompileString("mem://questions/string_array.json", stringArraySchema),
		extract: stringsFromArray,
	},
	{
		name:   "questions_object",
		schema: jsonschema.MustCompileString("mem://questions/questions_object.json", questionsObjectSchema),
		extract: func(value interface{}) []string {
			return stringsFromArray(value.(map[string]interface{})["questions"])
		},
	},
	{
		name:    "question_object_array",
		schema:  jsonschema.MustCompileString("mem://questions/question_object_array.json", questionObjectArraySchema),
		extract: questionsFromMixedArray,
	},
	{
		name:   "mixed",
		schema: jsonschema.MustCompileString("mem://questions/mixed.json", mixedQuestionsSchema),
		extract: func(value interface{}) []string {
			if obj, ok := value.(map[string]interface{}); ok {
				return questionsFromMixedArray(obj["questions"])
			}
			return questionsFromMixedArray(value)
		},
	},
}

// matchQuestionShape returns the questions of the first shape that matches.
func matchQuestionShape(value interface{}) ([]string, string, bool) {
	for _, shape := range questionShapes {
		if questions, ok := shape.match(value); ok {
			return questions, shape.name, true
		}
	}
	return nil, "", false
}

func stringsFromArray(value interface{}) []string {
	items, _ := value.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func questionsFromMixedArray(value interface{}) []string {
	items, _ := value.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			if q, ok := v["question"].(string); ok {
				out = append(out, q)
			}
		}
	}
	return out
}

// dropBlankQuestions removes whitespace-only entries and keeps the rest verbatim.
func dropBlankQuestions(questions []string) []string {
	out := questions[:0]
	for _, q := range questions {
		if strings.TrimSpace(q) != "" {
			out = append(out, q)
		}
	}
	return out
}
