package ingest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

type loadFunc func(ctx context.Context, r io.ReaderAt, size int64) ([]schema.Document, error)

func loadPDF(ctx context.Context, r io.ReaderAt, size int64) ([]schema.Document, error) {
	return documentloaders.NewPDF(r, size).Load(ctx)
}

func loadText(ctx context.Context, r io.ReaderAt, size int64) ([]schema.Document, error) {
	return documentloaders.NewText(io.NewSectionReader(r, 0, size)).Load(ctx)
}

// Ingestor extracts page text from uploaded PDFs and plain-text files.
type Ingestor struct {
	loaders map[string]loadFunc
	logger  *zap.Logger
}

var _ domain.DocumentIngestor = (*Ingestor)(nil)

func NewIngestor(l *zap.Logger) *Ingestor {
	return &Ingestor{
		loaders: map[string]loadFunc{
			".pdf": loadPDF,
			".txt": loadText,
			".md":  loadText,
		},
		logger: logger.OrNop(l),
	}
}

// Supported reports whether name has an extension the ingestor can read.
func (i *Ingestor) Supported(name string) bool {
	_, ok := i.loaders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Ingest returns one RawPage per non-blank page, numbered from 1.
func (i *Ingestor) Ingest(ctx context.Context, name string, r io.ReaderAt, size int64) ([]domain.RawPage, error) {
	load, ok := i.loaders[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported document type: %s", name))
	}
	if size <= 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("document %s is empty", name))
	}

	docs, err := load(ctx, r, size)
	if err != nil {
		return nil, domain.NewError(domain.CodeInvalidInput, fmt.Sprintf("failed to read %s", name), err)
	}

	pages := make([]domain.RawPage, 0, len(docs))
	for n, d := range docs {
		if strings.TrimSpace(d.PageContent) == "" {
			continue
		}
		pages = append(pages, domain.RawPage{Source: name, Page: n + 1, Text: d.PageContent})
	}

	i.logger.Info("ingested document",
		zap.String("source", name),
		zap.Int("pages", len(docs)),
		zap.Int("non_blank_pages", len(pages)))
	return pages, nil
}
