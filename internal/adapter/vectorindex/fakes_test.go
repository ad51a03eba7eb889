package vectorindex

import (
	"context"
	"errors"
	"strings"

	"quizzify/internal/domain"
)

// keywordEmbedder maps text onto three axes by keyword so similarity is predictable.
type keywordEmbedder struct {
	err error
}

func (k *keywordEmbedder) vector(text string) []float32 {
	t := strings.ToLower(text)
	v := []float32{0, 0, 0}
	if strings.Contains(t, "light") || strings.Contains(t, "photosynthesis") {
		v[0] = 1
	}
	if strings.Contains(t, "cell") || strings.Contains(t, "mitochondria") {
		v[1] = 1
	}
	if strings.Contains(t, "water") {
		v[2] = 1
	}
	return v
}

func (k *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	return k.vector(text), nil
}

func (k *keywordEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

var errStoreDown = errors.New("store down")

// failingIndex fails every search with a non-domain error.
type failingIndex struct{}

func (failingIndex) Index(context.Context, []domain.Chunk) (int, error) { return 0, errStoreDown }

func (failingIndex) Search(context.Context, string, int) ([]domain.Passage, error) {
	return nil, errStoreDown
}

func (failingIndex) Size(context.Context) (int, error) { return 0, errStoreDown }

func (f failingIndex) AsRetriever(k int) domain.Retriever { return NewRetriever(f, k) }
