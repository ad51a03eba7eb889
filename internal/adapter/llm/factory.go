package llm

import (
	"context"
	"fmt"
	"net/http"

	"quizzify/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// DefaultModel returns the model used when llm.model is empty.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGoogleAI:
		return "gemini-pro"
	default:
		return "qwen3:0.6b"
	}
}

// NewModel creates the langchaingo client for cfg.Provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, string, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOllama, "":
		opts := []ollama.Option{
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		}
		if cfg.JSONMode {
			opts = append(opts, ollama.WithFormat("json"))
		}
		m, err := ollama.New(opts...)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create ollama client: %w", err)
		}
		return m, model, nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, "", fmt.Errorf("openai API key cannot be empty")
		}
		m, err := openai.New(openai.WithToken(cfg.APIKey), openai.WithModel(model))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create openai client: %w", err)
		}
		return m, model, nil
	case ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, "", fmt.Errorf("googleai API key cannot be empty")
		}
		m, err := googleai.New(ctx, googleai.WithAPIKey(cfg.APIKey), googleai.WithDefaultModel(model))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create googleai client: %w", err)
		}
		return m, model, nil
	default:
		return nil, "", fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// NewBackendFromConfig wires NewModel into a Backend.
func NewBackendFromConfig(ctx context.Context, cfg config.LLMConfig, l *zap.Logger) (*Backend, error) {
	m, model, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewBackend(m, Options{
		Model:           model,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		JSONMode:        cfg.JSONMode,
		Timeout:         cfg.Timeout,
	}, l)
}
