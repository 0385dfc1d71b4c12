// Package rag orchestrates the two halves of the document question
// pipeline: indexing (extract, chunk, embed, store) and querying (embed,
// search, synthesize, cite).
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/documind/ai-service/internal/chunker"
	"github.com/documind/ai-service/internal/extractor"
	"github.com/documind/ai-service/internal/storage"
)

// ErrDocumentNotIndexed signals a query against a document identifier
// that has no collection in the vector store.
var ErrDocumentNotIndexed = errors.New("document not indexed")

// TextExtractor extracts plain text and a page count from a file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*extractor.Result, error)
}

// Embedder turns texts into embedding vectors, output order matching
// input order 1:1.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the collection-scoped storage the pipeline writes to and
// searches against.
type VectorStore interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
	InsertChunks(ctx context.Context, name string, chunks []*storage.IndexedChunk) error
	Search(ctx context.Context, name string, vector []float32, limit int) ([]*storage.SearchHit, error)
}

// Synthesizer generates an answer from an assembled context prompt.
type Synthesizer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Options hold the query-time generation parameters.
type Options struct {
	TopK        int
	MaxTokens   int
	Temperature float64
}

// Service drives both pipelines. It keeps no state between calls beyond
// the injected collaborators; concurrent ProcessDocument and Query calls
// for the same document can race on the shared collection (a reprocess
// deletes the collection a query may be searching), which is accepted
// rather than serialized.
type Service struct {
	extractor TextExtractor
	splitter  *chunker.Splitter
	embedder  Embedder
	store     VectorStore
	synth     Synthesizer
	opts      Options
	logger    *slog.Logger
}

// NewService wires the pipeline components together.
func NewService(
	ext TextExtractor,
	splitter *chunker.Splitter,
	embedder Embedder,
	store VectorStore,
	synth Synthesizer,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &Service{
		extractor: ext,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		synth:     synth,
		opts:      opts,
		logger:    logger,
	}
}

// collectionName returns the vector store namespace for a document.
func collectionName(documentID string) string {
	return fmt.Sprintf("doc_%s", documentID)
}
