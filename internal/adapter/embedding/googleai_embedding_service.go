package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	SourceGoogleAI = "googleai"

	defaultGoogleAIEmbeddingModel = "embedding-001"
)

func NewGoogleAIEmbeddingService(ctx context.Context, apiKey, modelName string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("googleai API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultGoogleAIEmbeddingModel
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo GoogleAI client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from GoogleAI client: %w", err)
	}

	return &Service{embedder: embedder, source: SourceGoogleAI}, nil
}
