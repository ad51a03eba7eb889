package service

import (
	"context"
	"fmt"
	"strings"

	"quizzify/internal/config"
	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"go.uber.org/zap"
)

const (
	MinQuestions = 1
	MaxQuestions = config.DefaultMaxQuestions
	// MaxAttempts bounds backend calls per slot.
	MaxAttempts = config.DefaultMaxAttempts
)

// OrchestratorOption customises a QuizOrchestrator.
type OrchestratorOption func(*QuizOrchestrator)

func WithMaxAttempts(n int) OrchestratorOption {
	return func(o *QuizOrchestrator) { o.maxAttempts = n }
}

func WithLogger(l *zap.Logger) OrchestratorOption {
	return func(o *QuizOrchestrator) { o.logger = logger.OrNop(l) }
}

// QuizOrchestrator fills up to numQuestions slots, one attempt at a time.
type QuizOrchestrator struct {
	topic        string
	numQuestions int
	maxAttempts  int
	generator    QuestionGenerator
	logger       *zap.Logger
}

// NewQuizOrchestrator fails with INVALID_CONFIGURATION before any generation
// when numQuestions is outside [1,10]. An empty topic becomes "General Knowledge".
func NewQuizOrchestrator(topic string, numQuestions int, generator QuestionGenerator, opts ...OrchestratorOption) (*QuizOrchestrator, error) {
	if numQuestions < MinQuestions || numQuestions > MaxQuestions {
		return nil, domain.NewInvalidConfigurationError(
			fmt.Sprintf("number of questions must be between %d and %d, got %d", MinQuestions, MaxQuestions, numQuestions)).
			WithContext("num_questions", numQuestions)
	}
	if generator == nil {
		return nil, domain.NewInvalidConfigurationError("question generator cannot be nil")
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = config.DefaultTopic
	}

	o := &QuizOrchestrator{
		topic:        topic,
		numQuestions: numQuestions,
		maxAttempts:  MaxAttempts,
		generator:    generator,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxAttempts < 1 {
		return nil, domain.NewInvalidConfigurationError(fmt.Sprintf("max attempts must be positive, got %d", o.maxAttempts))
	}
	return o, nil
}

func (o *QuizOrchestrator) Topic() string     { return o.topic }
func (o *QuizOrchestrator) NumQuestions() int { return o.numQuestions }
func (o *QuizOrchestrator) MaxAttempts() int  { return o.maxAttempts }

// GenerateQuiz runs every slot in order and returns the sealed bank. A slot
// that exhausts its attempts is recorded and skipped, so the bank may be
// shorter than requested. NOT_READY aborts the run with no bank. If ctx is
// cancelled between attempts, the bank built so far is sealed and returned
// together with the context error; the interrupted slot is not recorded.
func (o *QuizOrchestrator) GenerateQuiz(ctx context.Context) (*domain.QuestionBank, error) {
	bank := domain.NewQuestionBank(o.numQuestions)
	log := o.logger.With(zap.String("topic", o.topic), zap.Int("requested", o.numQuestions))
	log.Info("starting quiz generation", zap.Int("max_attempts", o.maxAttempts))

	for slot := 1; slot <= o.numQuestions; slot++ {
		report, err := o.fillSlot(ctx, bank, slot, log)
		if err != nil {
			if ctx.Err() != nil {
				bank.Seal()
				log.Warn("quiz generation cancelled", zap.Int("slot", slot), zap.Int("generated", bank.Len()))
				return bank, fmt.Errorf("quiz generation cancelled at slot %d: %w", slot, err)
			}
			log.Error("quiz generation aborted", zap.Int("slot", slot), zap.String("code", string(domain.CodeOf(err))), zap.Error(err))
			return nil, err
		}
		bank.Record(report)
	}

	bank.Seal()
	log.Info("quiz generation complete",
		zap.Int("generated", bank.Len()),
		zap.Int("shortfall", bank.Shortfall()),
		zap.Int("attempts", bank.TotalAttempts()))
	return bank, nil
}

// fillSlot returns an error only for conditions that end the whole run.
func (o *QuizOrchestrator) fillSlot(ctx context.Context, bank *domain.QuestionBank, slot int, log *zap.Logger) (domain.SlotReport, error) {
	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.SlotReport{}, err
		}

		q, err := o.generator.GenerateOne(ctx, o.topic)
		if err == nil {
			err = bank.Add(q)
		}
		if err == nil {
			log.Info("question accepted", zap.Int("slot", slot), zap.Int("attempt", attempt))
			return domain.SlotReport{Slot: slot, Attempts: attempt, Outcome: domain.SlotAccepted}, nil
		}
		if domain.IsFatal(err) {
			return domain.SlotReport{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.SlotReport{}, ctxErr
		}

		lastErr = err
		log.Warn("attempt rejected",
			zap.Int("slot", slot),
			zap.Int("attempt", attempt),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
	}

	exhausted := domain.NewSlotExhaustedError(slot, o.maxAttempts, lastErr)
	log.Warn("slot exhausted", zap.Int("slot", slot), zap.Error(exhausted))
	return domain.SlotReport{
		Slot:      slot,
		Attempts:  o.maxAttempts,
		Outcome:   domain.SlotExhausted,
		LastError: exhausted.Error(),
	}, nil
}
