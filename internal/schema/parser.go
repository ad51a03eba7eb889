package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizzify/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// Parser turns raw backend output into a validated Question.
type Parser struct {
	schema *gojsonschema.Schema
}

// NewParser compiles QuestionSchema.
func NewParser() (*Parser, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(QuestionSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile question schema: %w", err)
	}
	return &Parser{schema: s}, nil
}

// MustNewParser is NewParser for package initialisation; QuestionSchema is a constant.
func MustNewParser() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse returns MALFORMED_JSON when raw holds no syntactically valid JSON and
// SCHEMA_VIOLATION when the JSON does not describe a well-formed question.
func (p *Parser) Parse(raw string) (domain.Question, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return domain.Question{}, domain.NewMalformedJSONError(errors.New("empty output"))
	}
	if !json.Valid([]byte(payload)) {
		var v any
		err := json.Unmarshal([]byte(payload), &v)
		return domain.Question{}, domain.NewMalformedJSONError(err)
	}

	result, err := p.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return domain.Question{}, domain.NewMalformedJSONError(err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Question{}, domain.NewSchemaViolationError(strings.Join(msgs, "; ")).
			WithContext("violations", len(msgs))
	}

	var q domain.Question
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return domain.Question{}, domain.NewSchemaViolationError(err.Error())
	}
	// Key uniqueness and answer membership are not expressible in the schema above.
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// extractJSON strips reasoning blocks and markdown fences and returns the
// first complete {...} value, or the trimmed text when it has no braces.
// Anything after that value is ignored.
func extractJSON(raw string) string {
	s := raw
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			s = s[:start]
			break
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	var first json.RawMessage
	if err := json.NewDecoder(strings.NewReader(s[start:])).Decode(&first); err != nil {
		return s[start:]
	}
	return string(first)
}
