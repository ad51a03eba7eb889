package service

import (
	"context"
	"strings"

	"quizzify/internal/config"
	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
)

// IndexingService chunks ingested pages into a vector store and answers
// single-passage lookups against it.
type IndexingService interface {
	// IndexPages returns the number of chunks stored.
	IndexPages(ctx context.Context, pages []domain.RawPage) (int, error)
	// Query returns the most relevant passage with its relevance score.
	Query(ctx context.Context, query string) (domain.Passage, error)
}

type indexingService struct {
	store    vectorstores.VectorStore
	splitter textsplitter.TextSplitter
	logger   *zap.Logger
}

// NewIndexingService splits on cfg.Separator into chunks of at most
// cfg.ChunkSize characters overlapping by cfg.ChunkOverlap.
func NewIndexingService(store vectorstores.VectorStore, cfg config.RetrievalConfig, l *zap.Logger) (IndexingService, error) {
	if store == nil {
		return nil, domain.NewInvalidConfigurationError("vector store cannot be nil")
	}
	if cfg.ChunkSize < 1 || cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, domain.NewInvalidConfigurationError("chunk overlap must be non-negative and smaller than chunk size")
	}
	separator := cfg.Separator
	if separator == "" {
		separator = " "
	}

	return &indexingService{
		store: store,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators([]string{separator}),
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		),
		logger: logger.OrNop(l),
	}, nil
}

func (s *indexingService) IndexPages(ctx context.Context, pages []domain.RawPage) (int, error) {
	texts := make([]string, 0, len(pages))
	metadatas := make([]map[string]any, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		texts = append(texts, p.Text)
		metadatas = append(metadatas, map[string]any{"source": p.Source, "page": p.Page})
	}
	if len(texts) == 0 {
		return 0, domain.NewInvalidInputError("no documents found")
	}

	docs, err := textsplitter.CreateDocuments(s.splitter, texts, metadatas)
	if err != nil {
		return 0, domain.NewInternalError("failed to split documents", err)
	}
	chunks := make([]schema.Document, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.PageContent) != "" {
			chunks = append(chunks, d)
		}
	}
	if len(chunks) == 0 {
		return 0, domain.NewInvalidInputError("no documents found")
	}

	ids, err := s.store.AddDocuments(ctx, chunks)
	if err != nil {
		return 0, err
	}

	s.logger.Info("indexed pages", zap.Int("pages", len(texts)), zap.Int("chunks", len(ids)))
	return len(ids), nil
}

func (s *indexingService) Query(ctx context.Context, query string) (domain.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Passage{}, domain.NewInvalidInputError("query cannot be empty")
	}

	docs, err := s.store.SimilaritySearch(ctx, query, 1)
	if err != nil {
		return domain.Passage{}, err
	}
	if len(docs) == 0 {
		return domain.Passage{}, domain.NewNotFoundError("no matching passage")
	}

	d := docs[0]
	p := domain.Passage{Content: d.PageContent, Score: float64(d.Score)}
	if src, ok := d.Metadata["source"].(string); ok {
		p.Source = src
	}
	if page, ok := d.Metadata["page"].(int); ok {
		p.Page = page
	}
	return p, nil
}
