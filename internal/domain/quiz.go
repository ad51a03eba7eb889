package domain

import (
	"fmt"
	"strings"
)

// ChoiceKey identifies one of the four answer options of a question.
type ChoiceKey string

const (
	ChoiceA ChoiceKey = "A"
	ChoiceB ChoiceKey = "B"
	ChoiceC ChoiceKey = "C"
	ChoiceD ChoiceKey = "D"
)

// ChoicesPerQuestion is the exact number of options every question carries.
const ChoicesPerQuestion = 4

// CanonicalChoiceKeys returns the valid keys in display order.
func CanonicalChoiceKeys() []ChoiceKey {
	return []ChoiceKey{ChoiceA, ChoiceB, ChoiceC, ChoiceD}
}

// Valid reports whether k is one of A, B, C or D.
func (k ChoiceKey) Valid() bool {
	switch k {
	case ChoiceA, ChoiceB, ChoiceC, ChoiceD:
		return true
	}
	return false
}

// Choice is a single answer option.
type Choice struct {
	Key   ChoiceKey `json:"key"`
	Value string    `json:"value"`
}

// Question is one generated multiple-choice quiz item.
type Question struct {
	Text        string    `json:"question"`
	Choices     []Choice  `json:"choices"`
	AnswerKey   ChoiceKey `json:"answer"`
	Explanation string    `json:"explanation"`
}

// Validate checks every structural invariant of a question. A question that
// fails here must never reach a bank.
func (q *Question) Validate() error {
	if q == nil {
		return NewSchemaViolationError("question is nil")
	}
	if strings.TrimSpace(q.Text) == "" {
		return NewSchemaViolationError("question text is required")
	}
	if len(q.Choices) != ChoicesPerQuestion {
		return NewSchemaViolationError(fmt.Sprintf("expected %d choices, got %d", ChoicesPerQuestion, len(q.Choices))).
			WithContext("choices", len(q.Choices))
	}
	seen := make(map[ChoiceKey]bool, ChoicesPerQuestion)
	for i, c := range q.Choices {
		if !c.Key.Valid() {
			return NewSchemaViolationError(fmt.Sprintf("choice %d has invalid key %q", i, c.Key))
		}
		if seen[c.Key] {
			return NewSchemaViolationError(fmt.Sprintf("duplicate choice key %q", c.Key))
		}
		seen[c.Key] = true
		if strings.TrimSpace(c.Value) == "" {
			return NewSchemaViolationError(fmt.Sprintf("choice %s has empty value", c.Key))
		}
	}
	if !seen[q.AnswerKey] {
		return NewSchemaViolationError(fmt.Sprintf("answer %q is not one of the choice keys", q.AnswerKey))
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return NewSchemaViolationError("explanation is required")
	}
	return nil
}

// Choice returns the option with the given key.
func (q *Question) Choice(key ChoiceKey) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// cloneQuestion returns a deep copy so bank contents cannot be mutated through returned values.
func cloneQuestion(q Question) Question {
	choices := make([]Choice, len(q.Choices))
	copy(choices, q.Choices)
	q.Choices = choices
	return q
}

// SlotOutcome is the terminal state of one slot in a generation run.
type SlotOutcome string

const (
	SlotAccepted  SlotOutcome = "accepted"
	SlotExhausted SlotOutcome = "exhausted"
)

// SlotReport describes how one slot was filled, or why it was not.
type SlotReport struct {
	Slot      int         `json:"slot"`
	Attempts  int         `json:"attempts"`
	Outcome   SlotOutcome `json:"outcome"`
	LastError string      `json:"last_error,omitempty"`
}

// QuestionBank is the ordered set of accepted questions of one run. No two
// questions share the same text (exact, case-sensitive comparison).
type QuestionBank struct {
	requested int
	questions []Question
	slots     []SlotReport
	sealed    bool
}

// NewQuestionBank creates an empty bank for a run that asked for requested questions.
func NewQuestionBank(requested int) *QuestionBank {
	return &QuestionBank{
		requested: requested,
		questions: make([]Question, 0, requested),
	}
}

// Contains reports whether a question with exactly this text is already in the bank.
func (b *QuestionBank) Contains(text string) bool {
	for _, q := range b.questions {
		if q.Text == text {
			return true
		}
	}
	return false
}

// Add appends a validated, unique question.
func (b *QuestionBank) Add(q Question) error {
	if b.sealed {
		return NewInternalError("question bank is sealed", nil)
	}
	if err := q.Validate(); err != nil {
		return err
	}
	if b.Contains(q.Text) {
		return NewDuplicateQuestionError(q.Text)
	}
	b.questions = append(b.questions, cloneQuestion(q))
	return nil
}

// Record stores the report of a finished slot.
func (b *QuestionBank) Record(r SlotReport) {
	if b.sealed {
		return
	}
	b.slots = append(b.slots, r)
}

// Seal marks the bank as complete. Further Add calls fail.
func (b *QuestionBank) Seal() {
	b.sealed = true
}

// Sealed reports whether generation has completed.
func (b *QuestionBank) Sealed() bool {
	return b.sealed
}

// Len returns the number of accepted questions.
func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// Requested returns the number of questions the run asked for.
func (b *QuestionBank) Requested() int {
	return b.requested
}

// Shortfall returns how many slots were left unfilled.
func (b *QuestionBank) Shortfall() int {
	if d := b.requested - len(b.questions); d > 0 {
		return d
	}
	return 0
}

// At returns a copy of the question at position i.
func (b *QuestionBank) At(i int) (Question, error) {
	if i < 0 || i >= len(b.questions) {
		return Question{}, NewInvalidInputError(fmt.Sprintf("index %d out of range [0,%d)", i, len(b.questions)))
	}
	return cloneQuestion(b.questions[i]), nil
}

// Questions returns a copy of the accepted questions in generation order.
func (b *QuestionBank) Questions() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Slots returns a copy of the per-slot reports.
func (b *QuestionBank) Slots() []SlotReport {
	out := make([]SlotReport, len(b.slots))
	copy(out, b.slots)
	return out
}

// TotalAttempts sums the attempts consumed by all recorded slots.
func (b *QuestionBank) TotalAttempts() int {
	total := 0
	for _, s := range b.slots {
		total += s.Attempts
	}
	return total
}

// Passage is a retrieved chunk of source-document text.
type Passage struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Page    int     `json:"page,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// RawPage is one page of text produced by a document ingestor.
type RawPage struct {
	Source string
	Page   int
	Text   string
}

// GenerationRequest is the ephemeral input of one prompt build.
type GenerationRequest struct {
	Topic              string
	Context            []Passage
	FormatInstructions string
}
