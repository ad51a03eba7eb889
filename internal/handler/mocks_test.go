package handler

import (
	"context"
	"io"

	"quizzify/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizService ---
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, topic string, numQuestions int) (*domain.QuestionBank, error) {
	args := m.Called(ctx, topic, numQuestions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionBank), args.Error(1)
}

// --- MockIndexingService ---
type MockIndexingService struct {
	mock.Mock
}

func (m *MockIndexingService) IndexPages(ctx context.Context, pages []domain.RawPage) (int, error) {
	args := m.Called(ctx, pages)
	return args.Int(0), args.Error(1)
}

func (m *MockIndexingService) Query(ctx context.Context, query string) (domain.Passage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Passage), args.Error(1)
}

// --- MockIngestor ---
type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) Ingest(ctx context.Context, name string, r io.ReaderAt, size int64) ([]domain.RawPage, error) {
	args := m.Called(ctx, name, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawPage), args.Error(1)
}

// --- MockVectorIndex ---
type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Index(ctx context.Context, chunks []domain.Chunk) (int, error) {
	args := m.Called(ctx, chunks)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorIndex) Search(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Passage), args.Error(1)
}

func (m *MockVectorIndex) Size(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorIndex) AsRetriever(k int) domain.Retriever {
	args := m.Called(k)
	return args.Get(0).(domain.Retriever)
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
		Explanation: "Plants take in carbon dioxide.",
	}
}

// sealedBank builds a finished bank holding one question per text.
func sealedBank(requested int, texts ...string) *domain.QuestionBank {
	bank := domain.NewQuestionBank(requested)
	for i, text := range texts {
		if err := bank.Add(sampleQuestion(text)); err != nil {
			panic(err)
		}
		bank.Record(domain.SlotReport{Slot: i + 1, Attempts: 1, Outcome: domain.SlotAccepted})
	}
	for i := len(texts); i < requested; i++ {
		bank.Record(domain.SlotReport{Slot: i + 1, Attempts: 10, Outcome: domain.SlotExhausted, LastError: "slot exhausted"})
	}
	bank.Seal()
	return bank
}
