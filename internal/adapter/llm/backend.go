package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Options are the knobs the question generator owns.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	JSONMode        bool
	Timeout         time.Duration
}

// Backend implements domain.GenerationBackend over any langchaingo model.
// Every Invoke is a single, independent prompt with no history.
type Backend struct {
	model   llms.Model
	opts    Options
	callOpt []llms.CallOption
	logger  *zap.Logger
}

var _ domain.GenerationBackend = (*Backend)(nil)

func NewBackend(model llms.Model, opts Options, l *zap.Logger) (*Backend, error) {
	if model == nil {
		return nil, domain.NewInvalidConfigurationError("llm model cannot be nil")
	}
	if opts.Temperature < 0 || opts.Temperature > 2 {
		return nil, domain.NewInvalidConfigurationError("temperature must be in [0,2]")
	}
	if opts.MaxOutputTokens < 0 {
		return nil, domain.NewInvalidConfigurationError("max output tokens cannot be negative")
	}

	callOpt := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxOutputTokens > 0 {
		callOpt = append(callOpt, llms.WithMaxTokens(opts.MaxOutputTokens))
	}
	if opts.Model != "" {
		callOpt = append(callOpt, llms.WithModel(opts.Model))
	}
	if opts.JSONMode {
		callOpt = append(callOpt, llms.WithJSONMode())
	}

	return &Backend{
		model:   model,
		opts:    opts,
		callOpt: callOpt,
		logger:  logger.OrNop(l),
	}, nil
}

// Options returns the configuration the backend was built with.
func (b *Backend) Options() Options {
	return b.opts
}

// Invoke sends prompt to the model. Any failure, including an empty
// completion, is reported as BACKEND_ERROR.
func (b *Backend) Invoke(ctx context.Context, prompt string) (string, error) {
	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, b.model, prompt, b.callOpt...)
	duration := time.Since(start)
	if err != nil {
		b.logger.Warn("generation backend call failed",
			zap.String("model", b.opts.Model),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", domain.NewBackendError(err)
	}
	if strings.TrimSpace(out) == "" {
		return "", domain.NewBackendError(errors.New("empty completion"))
	}

	b.logger.Debug("generation backend call succeeded",
		zap.String("model", b.opts.Model),
		zap.Duration("duration", duration),
		zap.Int("response_length", len(out)))
	return out, nil
}
