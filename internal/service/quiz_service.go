package service

import (
	"context"

	"quizzify/internal/config"
	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"go.uber.org/zap"
)

// QuizService runs one generation per call and hands back the sealed bank.
type QuizService interface {
	CreateQuiz(ctx context.Context, topic string, numQuestions int) (*domain.QuestionBank, error)
}

type quizService struct {
	generator QuestionGenerator
	cfg       config.QuizConfig
	logger    *zap.Logger
}

// NewQuizService creates a new QuizService instance
func NewQuizService(generator QuestionGenerator, cfg config.QuizConfig, l *zap.Logger) (QuizService, error) {
	if generator == nil {
		return nil, domain.NewInvalidConfigurationError("question generator cannot be nil")
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = MaxAttempts
	}
	if cfg.MaxQuestions < MinQuestions || cfg.MaxQuestions > MaxQuestions {
		cfg.MaxQuestions = MaxQuestions
	}
	if cfg.DefaultTopic == "" {
		cfg.DefaultTopic = config.DefaultTopic
	}
	return &quizService{generator: generator, cfg: cfg, logger: logger.OrNop(l)}, nil
}

func (s *quizService) CreateQuiz(ctx context.Context, topic string, numQuestions int) (*domain.QuestionBank, error) {
	if numQuestions > s.cfg.MaxQuestions {
		return nil, domain.NewInvalidConfigurationError("number of questions exceeds the configured maximum").
			WithContext("num_questions", numQuestions).
			WithContext("max_questions", s.cfg.MaxQuestions)
	}
	if topic == "" {
		topic = s.cfg.DefaultTopic
	}

	orchestrator, err := NewQuizOrchestrator(topic, numQuestions, s.generator,
		WithMaxAttempts(s.cfg.MaxAttempts),
		WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	bank, err := orchestrator.GenerateQuiz(ctx)
	if err != nil {
		s.logger.Warn("quiz generation did not complete",
			zap.String("topic", orchestrator.Topic()),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		return bank, err
	}

	s.logger.Info("quiz generated",
		zap.String("topic", orchestrator.Topic()),
		zap.Int("requested", bank.Requested()),
		zap.Int("generated", bank.Len()),
		zap.Int("attempts", bank.TotalAttempts()))
	return bank, nil
}
