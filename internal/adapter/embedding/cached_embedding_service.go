package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"quizzify/internal/cache"
	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultEmbeddingTTL = 168 * time.Hour

// CachedEmbeddingService memoises vectors of another EmbeddingService. Cache
// failures are logged and never fail an embed call.
type CachedEmbeddingService struct {
	next    domain.EmbeddingService
	cache   domain.Cache
	source  string
	ttl     time.Duration
	logger  *zap.Logger
	sfGroup singleflight.Group
}

var _ domain.EmbeddingService = (*CachedEmbeddingService)(nil)

func NewCachedEmbeddingService(next domain.EmbeddingService, c domain.Cache, source string, ttl time.Duration, l *zap.Logger) (*CachedEmbeddingService, error) {
	if next == nil {
		return nil, fmt.Errorf("embedding service cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache instance cannot be nil for CachedEmbeddingService")
	}
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	return &CachedEmbeddingService{
		next:   next,
		cache:  c,
		source: source,
		ttl:    ttl,
		logger: logger.OrNop(l),
	}, nil
}

func (s *CachedEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.EmbeddingKey(s.source, text)
	if vec, ok := s.lookup(ctx, key); ok {
		return vec, nil
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		vec, err := s.next.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for %s embedding: %T", s.source, res)
	}
	return cloneVector(vec), nil
}

// EmbedMany serves hits from the cache and embeds all misses in one call.
func (s *CachedEmbeddingService) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		keys[i] = cache.EmbeddingKey(s.source, text)
		if vec, ok := s.lookup(ctx, keys[i]); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	s.logger.Debug("embedding cache misses",
		zap.String("source", s.source),
		zap.Int("hits", len(texts)-len(missTexts)),
		zap.Int("misses", len(missTexts)))

	vecs, err := s.next.EmbedMany(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d texts", s.source, len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		s.store(ctx, keys[i], vecs[j])
	}
	return out, nil
}

func (s *CachedEmbeddingService) lookup(ctx context.Context, key string) ([]float32, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("failed to read embedding cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var vec []float32
	if err := gob.NewDecoder(bytes.NewReader([]byte(data))).Decode(&vec); err != nil || len(vec) == 0 {
		s.logger.Warn("discarding undecodable cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (s *CachedEmbeddingService) store(ctx context.Context, key string, vec []float32) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vec); err != nil {
		s.logger.Warn("failed to encode embedding for caching", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, buf.String(), s.ttl); err != nil {
		s.logger.Warn("failed to write embedding cache", zap.String("key", key), zap.Error(err))
	}
}
