package app

import (
	"context"
	"fmt"

	"quizzify/internal/adapter"
	"quizzify/internal/adapter/embedding"
	"quizzify/internal/adapter/ingest"
	"quizzify/internal/adapter/llm"
	"quizzify/internal/adapter/vectorindex"
	"quizzify/internal/cache"
	"quizzify/internal/config"
	"quizzify/internal/domain"
	"quizzify/internal/logger"
	"quizzify/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Components is the wired quiz pipeline shared by the API server and the CLI.
type Components struct {
	Config    *config.Config
	Cache     domain.Cache // nil without redis
	Embedder  domain.EmbeddingService
	Index     domain.VectorIndex
	Backend   domain.GenerationBackend
	Generator service.QuestionGenerator
	Quizzes   service.QuizService
	Indexing  service.IndexingService
	Ingestor  domain.DocumentIngestor

	redisClient *redis.Client
}

// New connects to the configured providers and wires every component.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Components, error) {
	l = logger.OrNop(l)

	var (
		cacheAdapter domain.Cache
		redisClient  *redis.Client
	)
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		redisClient = client
		cacheAdapter = adapter.NewRedisCacheAdapter(client)
		l.Info("Redis cache initialized", zap.String("address", cfg.Redis.Address))
	} else {
		l.Warn("Redis cache is not configured. Running without cache.")
	}

	closeRedis := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}

	base, err := embedding.NewFromConfig(ctx, cfg.Embedding)
	if err != nil {
		closeRedis()
		return nil, fmt.Errorf("init embedding service: %w", err)
	}
	l.Info("Embedding service initialized", zap.String("source", base.Source()))

	var embedder domain.EmbeddingService = base
	if cacheAdapter != nil {
		ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Embedding, embedding.DefaultEmbeddingTTL)
		cached, err := embedding.NewCachedEmbeddingService(base, cacheAdapter, base.Source(), ttl, l)
		if err != nil {
			closeRedis()
			return nil, fmt.Errorf("init embedding cache: %w", err)
		}
		embedder = cached
	}

	backend, err := llm.NewBackendFromConfig(ctx, cfg.LLM, l)
	if err != nil {
		closeRedis()
		return nil, fmt.Errorf("init generation backend: %w", err)
	}
	l.Info("Generation backend initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", backend.Options().Model))

	c, err := Assemble(cfg, embedder, cacheAdapter, backend, l)
	if err != nil {
		closeRedis()
		return nil, err
	}
	c.redisClient = redisClient
	return c, nil
}

// Assemble wires the pipeline around already constructed providers.
func Assemble(cfg *config.Config, embedder domain.EmbeddingService, c domain.Cache, backend domain.GenerationBackend, l *zap.Logger) (*Components, error) {
	l = logger.OrNop(l)

	index, err := newIndex(cfg, embedder, c, l)
	if err != nil {
		return nil, err
	}

	generator, err := service.NewQuestionGenerator(index.AsRetriever(cfg.Retrieval.TopK), backend, l)
	if err != nil {
		return nil, fmt.Errorf("init question generator: %w", err)
	}
	quizzes, err := service.NewQuizService(generator, cfg.Quiz, l)
	if err != nil {
		return nil, fmt.Errorf("init quiz service: %w", err)
	}
	indexing, err := service.NewIndexingService(vectorindex.NewStore(index), cfg.Retrieval, l)
	if err != nil {
		return nil, fmt.Errorf("init indexing service: %w", err)
	}

	return &Components{
		Config:    cfg,
		Cache:     c,
		Embedder:  embedder,
		Index:     index,
		Backend:   backend,
		Generator: generator,
		Quizzes:   quizzes,
		Indexing:  indexing,
		Ingestor:  ingest.NewIngestor(l),
	}, nil
}

func newIndex(cfg *config.Config, embedder domain.EmbeddingService, c domain.Cache, l *zap.Logger) (*vectorindex.Index, error) {
	switch cfg.Retrieval.Index {
	case "redis":
		if c == nil {
			return nil, domain.NewInvalidConfigurationError("retrieval.index=redis requires redis.address")
		}
		ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.VectorIndex, 0)
		index, err := vectorindex.NewRedisIndex(c, cfg.Retrieval.Namespace, ttl, embedder, l)
		if err != nil {
			return nil, fmt.Errorf("init redis vector index: %w", err)
		}
		l.Info("Using redis vector index", zap.String("namespace", cfg.Retrieval.Namespace))
		return index, nil
	default:
		index, err := vectorindex.NewMemoryIndex(embedder, l)
		if err != nil {
			return nil, fmt.Errorf("init memory vector index: %w", err)
		}
		l.Info("Using in-memory vector index")
		return index, nil
	}
}

// Close releases the redis connection, if any.
func (c *Components) Close() error {
	if c.redisClient == nil {
		return nil
	}
	return c.redisClient.Close()
}
