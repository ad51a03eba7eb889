package prompt

import (
	"fmt"
	"strings"

	"quizzify/internal/domain"

	"github.com/tmc/langchaingo/prompts"
)

const questionTemplate = `You are a subject matter expert on the topic: {{.topic}}

Follow the instructions to create a quiz question:
1. Generate a question based on the topic provided and context as key "question"
2. Provide 4 multiple choice answers to the question as a list of key-value pairs "choices"
3. Provide the correct answer for the question from the list of answers as key "answer"
4. Provide an explanation for why the answer is correct or incorrect as the key "explanation"

{{.format_instructions}}

Context:
{{.context}}
`

const noContext = "(no passages were retrieved for this topic)"

// Builder renders the question-generation prompt. It holds no mutable state.
type Builder struct {
	template prompts.PromptTemplate
}

func NewBuilder() *Builder {
	return &Builder{
		template: prompts.NewPromptTemplate(questionTemplate, []string{"topic", "format_instructions", "context"}),
	}
}

// Build produces a self-contained prompt for one generation request.
func (b *Builder) Build(req domain.GenerationRequest) (string, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return "", domain.NewInvalidInputError("topic is required to build a prompt")
	}

	out, err := b.template.Format(map[string]any{
		"topic":               topic,
		"format_instructions": req.FormatInstructions,
		"context":             JoinPassages(req.Context),
	})
	if err != nil {
		return "", domain.NewInternalError("failed to render prompt", err)
	}
	return out, nil
}

// JoinPassages concatenates passage contents in retrieval order.
func JoinPassages(passages []domain.Passage) string {
	if len(passages) == 0 {
		return noContext
	}
	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, strings.TrimSpace(p.Content)))
	}
	return strings.Join(parts, "\n\n")
}
