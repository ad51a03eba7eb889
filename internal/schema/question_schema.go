package schema

import (
	"fmt"
	"strings"

	"quizzify/internal/domain"
)

// QuestionSchema is the JSON Schema every generated question must satisfy.
// It is both shown to the model and used to validate what comes back.
const QuestionSchema = `{
  "type": "object",
  "properties": {
    "question": {"type": "string", "minLength": 1, "description": "The quiz question text"},
    "choices": {
      "type": "array",
      "minItems": 4,
      "maxItems": 4,
      "description": "Exactly four answer options with keys A, B, C and D",
      "items": {
        "type": "object",
        "properties": {
          "key": {"type": "string", "enum": ["A", "B", "C", "D"]},
          "value": {"type": "string", "minLength": 1}
        },
        "required": ["key", "value"]
      }
    },
    "answer": {"type": "string", "enum": ["A", "B", "C", "D"], "description": "The key of the correct choice"},
    "explanation": {"type": "string", "minLength": 1, "description": "Why the answer is correct"}
  },
  "required": ["question", "choices", "answer", "explanation"]
}`

const exampleQuestion = `{"question": "What gas do plants absorb during photosynthesis?", "choices": [{"key": "A", "value": "Oxygen"}, {"key": "B", "value": "Carbon dioxide"}, {"key": "C", "value": "Nitrogen"}, {"key": "D", "value": "Helium"}], "answer": "B", "explanation": "Plants take in carbon dioxide and release oxygen."}`

// FormatInstructions describes the expected output shape to the generation backend.
func FormatInstructions() string {
	keys := make([]string, 0, domain.ChoicesPerQuestion)
	for _, k := range domain.CanonicalChoiceKeys() {
		keys = append(keys, string(k))
	}

	var b strings.Builder
	b.WriteString("The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n")
	fmt.Fprintf(&b, "Rules:\n- \"choices\" must contain exactly %d items whose keys are %s, each used once.\n",
		domain.ChoicesPerQuestion, strings.Join(keys, ", "))
	b.WriteString("- \"answer\" must be one of those keys.\n")
	b.WriteString("- Return only the JSON object, with no surrounding text.\n\n")
	b.WriteString("Here is an example of a well-formatted instance:\n")
	b.WriteString(exampleQuestion)
	b.WriteString("\n\nHere is the output schema:\n```\n")
	b.WriteString(QuestionSchema)
	b.WriteString("\n```")
	return b.String()
}
