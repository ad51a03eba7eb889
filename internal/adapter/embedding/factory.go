package embedding

import (
	"context"
	"fmt"

	"quizzify/internal/config"
)

// NewFromConfig builds the provider selected by cfg.Source.
func NewFromConfig(ctx context.Context, cfg config.EmbeddingConfig) (*Service, error) {
	switch cfg.Source {
	case SourceOllama, "":
		return NewOllamaEmbeddingService(cfg.Ollama.ServerURL, cfg.Ollama.Model)
	case SourceOpenAI:
		return NewOpenAIEmbeddingService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case SourceGoogleAI:
		return NewGoogleAIEmbeddingService(ctx, cfg.GoogleAI.APIKey, cfg.GoogleAI.Model)
	default:
		return nil, fmt.Errorf("unsupported embedding source %q", cfg.Source)
	}
}
