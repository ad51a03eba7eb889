package domain

import (
	"context"
)

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	// Embed returns the vector of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedMany returns one vector per text, in input order.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}
