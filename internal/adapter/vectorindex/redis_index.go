package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizzify/internal/cache"
	"quizzify/internal/domain"

	"go.uber.org/zap"
)

// redisStore keeps every record of a namespace as one field of a Redis hash.
type redisStore struct {
	cache domain.Cache
	key   string
	ttl   time.Duration
}

func encodeRecord(r record) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *redisStore) put(ctx context.Context, records []record) error {
	for _, r := range records {
		v, err := encodeRecord(r)
		if err != nil {
			return fmt.Errorf("failed to encode chunk %s: %w", r.ID, err)
		}
		if err := s.cache.HSet(ctx, s.key, r.ID, v); err != nil {
			return err
		}
	}
	if s.ttl > 0 {
		return s.cache.Expire(ctx, s.key, s.ttl)
	}
	return nil
}

func (s *redisStore) all(ctx context.Context) ([]record, error) {
	fields, err := s.cache.HGetAll(ctx, s.key)
	if err != nil {
		return nil, err
	}
	out := make([]record, 0, len(fields))
	for id, v := range fields {
		var r record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, fmt.Errorf("failed to decode chunk %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *redisStore) count(ctx context.Context) (int, error) {
	n, err := s.cache.HLen(ctx, s.key)
	return int(n), err
}

// NewRedisIndex persists chunks under cache.VectorIndexKey(namespace). A ttl of
// zero keeps them until the key is deleted.
func NewRedisIndex(c domain.Cache, namespace string, ttl time.Duration, embedder domain.EmbeddingService, l *zap.Logger) (*Index, error) {
	if c == nil {
		return nil, fmt.Errorf("cache instance cannot be nil for redis index")
	}
	if namespace == "" {
		namespace = "default"
	}
	return newIndex("redis", embedder, &redisStore{cache: c, key: cache.VectorIndexKey(namespace), ttl: ttl}, l)
}
