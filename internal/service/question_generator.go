package service

import (
	"context"
	"fmt"

	"quizzify/internal/domain"
	"quizzify/internal/logger"
	"quizzify/internal/prompt"
	"quizzify/internal/schema"

	"go.uber.org/zap"
)

// QuestionGenerator performs one retrieval, prompt, generate and parse round trip.
type QuestionGenerator interface {
	GenerateOne(ctx context.Context, topic string) (domain.Question, error)
}

type questionGenerator struct {
	retriever          domain.Retriever
	backend            domain.GenerationBackend
	builder            *prompt.Builder
	parser             *schema.Parser
	formatInstructions string
	logger             *zap.Logger
}

// NewQuestionGenerator binds a retriever and a backend. The backend carries
// the model, temperature and output-length settings.
func NewQuestionGenerator(retriever domain.Retriever, backend domain.GenerationBackend, l *zap.Logger) (QuestionGenerator, error) {
	if retriever == nil {
		return nil, domain.NewInvalidConfigurationError("retriever cannot be nil")
	}
	if backend == nil {
		return nil, domain.NewInvalidConfigurationError("generation backend cannot be nil")
	}
	parser, err := schema.NewParser()
	if err != nil {
		return nil, domain.NewInternalError("failed to create question parser", err)
	}
	return &questionGenerator{
		retriever:          retriever,
		backend:            backend,
		builder:            prompt.NewBuilder(),
		parser:             parser,
		formatInstructions: schema.FormatInstructions(),
		logger:             logger.OrNop(l),
	}, nil
}

// GenerateOne returns NOT_READY when retrieval fails, BACKEND_ERROR when the
// backend call fails and MALFORMED_JSON or SCHEMA_VIOLATION when its output
// cannot be turned into a question.
func (g *questionGenerator) GenerateOne(ctx context.Context, topic string) (domain.Question, error) {
	passages, err := g.retriever.Retrieve(ctx, topic)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeNotReady {
			return domain.Question{}, err
		}
		return domain.Question{}, domain.NewNotReadyError("retrieval failed", err)
	}

	text, err := g.builder.Build(domain.GenerationRequest{
		Topic:              topic,
		Context:            passages,
		FormatInstructions: g.formatInstructions,
	})
	if err != nil {
		return domain.Question{}, err
	}
	g.logger.Debug("built prompt", zap.String("topic", topic), zap.Int("passages", len(passages)), zap.String("prompt", text))

	raw, err := g.backend.Invoke(ctx, text)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeBackendError {
			return domain.Question{}, err
		}
		return domain.Question{}, domain.NewBackendError(err)
	}

	q, err := g.parser.Parse(raw)
	if err != nil {
		return domain.Question{}, fmt.Errorf("unusable backend output: %w", err)
	}
	return q, nil
}
