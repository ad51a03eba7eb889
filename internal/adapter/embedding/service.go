package embedding

import (
	"context"
	"fmt"
	"strings"

	"quizzify/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
)

// Service adapts a langchaingo embeddings.Embedder to domain.EmbeddingService.
type Service struct {
	embedder embeddings.Embedder
	source   string
}

var _ domain.EmbeddingService = (*Service)(nil)

// Source names the provider, e.g. "ollama". It is part of the cache key.
func (s *Service) Source() string {
	return s.source
}

func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewInvalidInputError("input text cannot be empty for embedding")
	}

	vec, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.source, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("received empty embedding from %s", s.source)
	}
	return cloneVector(vec), nil
}

func (s *Service) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("input text %d cannot be empty for embedding", i))
		}
	}

	vecs, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %d embeddings using %s: %w", len(texts), s.source, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d texts", s.source, len(vecs), len(texts))
	}

	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		out[i] = cloneVector(v)
	}
	return out, nil
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
