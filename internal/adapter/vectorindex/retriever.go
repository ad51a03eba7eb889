package vectorindex

import (
	"context"
	"fmt"
	"strings"

	"quizzify/internal/domain"
)

const DefaultTopK = 4

// Retriever binds a VectorIndex to a fixed result count.
type Retriever struct {
	index domain.VectorIndex
	k     int
}

var _ domain.Retriever = (*Retriever)(nil)

func NewRetriever(index domain.VectorIndex, k int) *Retriever {
	if k < 1 {
		k = DefaultTopK
	}
	return &Retriever{index: index, k: k}
}

// Retrieve returns passages most relevant first. An empty or missing index is NOT_READY.
func (r *Retriever) Retrieve(ctx context.Context, topic string) ([]domain.Passage, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.NewInvalidInputError("topic cannot be empty")
	}
	if r.index == nil {
		return nil, domain.NewNotReadyError("no vector index configured", nil)
	}

	passages, err := r.index.Search(ctx, topic, r.k)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeNotReady {
			return nil, err
		}
		return nil, domain.NewNotReadyError("retrieval failed", fmt.Errorf("topic %q: %w", topic, err))
	}
	return passages, nil
}
