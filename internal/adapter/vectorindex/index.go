package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quizzify/internal/domain"
	"quizzify/internal/logger"
	"quizzify/internal/util"

	"go.uber.org/zap"
)

// record is one embedded chunk as persisted by a store.
type record struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Source  string    `json:"source,omitempty"`
	Page    int       `json:"page,omitempty"`
	Vector  []float32 `json:"vector"`
	Seq     int64     `json:"seq"`
}

// store is the persistence half of an Index.
type store interface {
	// put persists records; their Seq values are assigned by the Index.
	put(ctx context.Context, records []record) error
	all(ctx context.Context) ([]record, error)
	count(ctx context.Context) (int, error)
}

// Index embeds chunks and answers cosine-similarity queries over a store.
// Results are ordered by score, ties broken by insertion order.
type Index struct {
	name     string
	embedder domain.EmbeddingService
	store    store
	logger   *zap.Logger

	// writeMu serializes sequence assignment with the store write.
	writeMu sync.Mutex
}

var _ domain.VectorIndex = (*Index)(nil)

func newIndex(name string, embedder domain.EmbeddingService, s store, l *zap.Logger) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding service cannot be nil for %s index", name)
	}
	return &Index{name: name, embedder: embedder, store: s, logger: logger.OrNop(l)}, nil
}

func (idx *Index) Index(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			return 0, domain.NewInvalidInputError(fmt.Sprintf("chunk %d has no content", i))
		}
		texts[i] = c.Content
	}

	vectors, err := idx.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding service returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	base, err := idx.store.count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s index: %w", idx.name, err)
	}

	records := make([]record, len(chunks))
	for i, c := range chunks {
		id := c.ID
		if id == "" {
			id = util.NewULID()
		}
		records[i] = record{
			ID:      id,
			Content: c.Content,
			Source:  c.Source,
			Page:    c.Page,
			Vector:  vectors[i],
			Seq:     int64(base + i),
		}
	}

	if err := idx.store.put(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store chunks in %s index: %w", idx.name, err)
	}

	idx.logger.Info("indexed chunks", zap.String("index", idx.name), zap.Int("chunks", len(records)))
	return len(records), nil
}

// Search fails with NOT_READY while the index holds no chunks.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	if k < 1 {
		return nil, domain.NewInvalidInputError("k must be positive")
	}

	records, err := idx.store.all(ctx)
	if err != nil {
		return nil, domain.NewNotReadyError(fmt.Sprintf("%s index is unavailable", idx.name), err)
	}
	if len(records) == 0 {
		return nil, domain.NewNotReadyError(fmt.Sprintf("%s index has no documents", idx.name), nil)
	}

	qv, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	type scored struct {
		rec   record
		score float64
	}
	candidates := make([]scored, 0, len(records))
	for _, r := range records {
		s, err := util.CosineSimilarity(qv, r.Vector)
		if err != nil {
			idx.logger.Warn("skipping chunk with incompatible vector",
				zap.String("index", idx.name), zap.String("chunk_id", r.ID), zap.Error(err))
			continue
		}
		candidates = append(candidates, scored{rec: r, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.Seq < candidates[j].rec.Seq
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]domain.Passage, len(candidates))
	for i, c := range candidates {
		out[i] = domain.Passage{
			Content: c.rec.Content,
			Source:  c.rec.Source,
			Page:    c.rec.Page,
			Score:   c.score,
		}
	}
	return out, nil
}

func (idx *Index) Size(ctx context.Context) (int, error) {
	return idx.store.count(ctx)
}

func (idx *Index) AsRetriever(k int) domain.Retriever {
	return NewRetriever(idx, k)
}
