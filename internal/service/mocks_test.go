package service

import (
	"context"
	"fmt"

	"quizzify/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// --- MockRetriever ---
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, topic string) ([]domain.Passage, error) {
	args := m.Called(ctx, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Passage), args.Error(1)
}

// --- MockGenerationBackend ---
type MockGenerationBackend struct {
	mock.Mock
}

func (m *MockGenerationBackend) Invoke(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

// GenerateOne accepts either values or functions of (ctx, topic) as return arguments.
func (m *MockQuestionGenerator) GenerateOne(ctx context.Context, topic string) (domain.Question, error) {
	args := m.Called(ctx, topic)

	var q domain.Question
	if fn, ok := args.Get(0).(func(context.Context, string) domain.Question); ok {
		q = fn(ctx, topic)
	} else {
		q = args.Get(0).(domain.Question)
	}

	if fn, ok := args.Get(1).(func(context.Context, string) error); ok {
		return q, fn(ctx, topic)
	}
	return q, args.Error(1)
}

// --- MockVectorStore ---
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVectorStore) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	args := m.Called(ctx, query, numDocuments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Document), args.Error(1)
}

// questionJSON renders a schema-valid backend payload.
func questionJSON(text string) string {
	return fmt.Sprintf(`{"question": %q, "choices": [{"key": "A", "value": "Oxygen"}, {"key": "B", "value": "Carbon dioxide"}, {"key": "C", "value": "Nitrogen"}, {"key": "D", "value": "Argon"}], "answer": "B", "explanation": "Because %s."}`, text, text)
}

func sampleQuestion(text string) domain.Question {
	return domain.Question{
		Text: text,
		Choices: []domain.Choice{
			{Key: domain.ChoiceA, Value: "Oxygen"},
			{Key: domain.ChoiceB, Value: "Carbon dioxide"},
			{Key: domain.ChoiceC, Value: "Nitrogen"},
			{Key: domain.ChoiceD, Value: "Argon"},
		},
		AnswerKey:   domain.ChoiceB,
		Explanation: "Because " + text + ".",
	}
}
