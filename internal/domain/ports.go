package domain

import (
	"context"
	"io"
)

// Retriever is the narrow read contract the quiz pipeline needs from a vector index.
// Passages come back most relevant first, as returned by the index.
type Retriever interface {
	Retrieve(ctx context.Context, topic string) ([]Passage, error)
}

// GenerationBackend turns a prompt into raw model output. Each call is independent.
type GenerationBackend interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Chunk is a piece of document text ready to be embedded and indexed.
type Chunk struct {
	ID      string
	Content string
	Source  string
	Page    int
}

// VectorIndex stores embedded chunks and answers nearest-neighbour queries.
type VectorIndex interface {
	// Index embeds and stores chunks, returning how many were added.
	Index(ctx context.Context, chunks []Chunk) (int, error)
	// Search returns up to k passages ranked by similarity to query.
	Search(ctx context.Context, query string, k int) ([]Passage, error)
	// Size returns the number of stored chunks.
	Size(ctx context.Context) (int, error)
	// AsRetriever binds the index to the Retriever contract with a fixed k.
	AsRetriever(k int) Retriever
}

// DocumentIngestor extracts page-level text from an uploaded document.
type DocumentIngestor interface {
	Ingest(ctx context.Context, name string, r io.ReaderAt, size int64) ([]RawPage, error)
}
