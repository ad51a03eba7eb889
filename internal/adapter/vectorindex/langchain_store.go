package vectorindex

import (
	"context"
	"fmt"
	"strconv"

	"quizzify/internal/domain"
	"quizzify/internal/util"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// Store exposes a domain.VectorIndex as a langchaingo vector store so the
// index can be used with langchaingo chains and retrievers.
type Store struct {
	index domain.VectorIndex
}

var _ vectorstores.VectorStore = (*Store)(nil)

func NewStore(index domain.VectorIndex) *Store {
	return &Store{index: index}
}

// AddDocuments reads "source" and "page" from document metadata.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	chunks := make([]domain.Chunk, len(docs))
	ids := make([]string, len(docs))
	for i, d := range docs {
		chunks[i] = domain.Chunk{
			ID:      metadataString(d.Metadata, "id"),
			Content: d.PageContent,
			Source:  metadataString(d.Metadata, "source"),
			Page:    metadataInt(d.Metadata, "page"),
		}
		if chunks[i].ID == "" {
			chunks[i].ID = util.NewULID()
		}
		ids[i] = chunks[i].ID
	}

	if _, err := s.index.Index(ctx, chunks); err != nil {
		return nil, err
	}
	return ids, nil
}

// SimilaritySearch honours vectorstores.WithScoreThreshold.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := vectorstores.Options{}
	for _, o := range options {
		o(&opts)
	}

	passages, err := s.index.Search(ctx, query, numDocuments)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(passages))
	for _, p := range passages {
		if opts.ScoreThreshold > 0 && float32(p.Score) < opts.ScoreThreshold {
			continue
		}
		docs = append(docs, schema.Document{
			PageContent: p.Content,
			Metadata:    map[string]any{"source": p.Source, "page": p.Page},
			Score:       float32(p.Score),
		})
	}
	return docs, nil
}

func metadataString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func metadataInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}
