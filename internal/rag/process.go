package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/documind/ai-service/internal/storage"
)

// ProcessDocument runs the full indexing pipeline for one document:
// extract text, chunk it, embed all chunks in one ordered batch, then
// replace the document's collection with the new chunks.
//
// Reprocessing a document identifier replaces its entire index. The
// delete-then-recreate step is not transactional with the inserts: a
// failure mid-insert leaves an empty or partial collection behind.
func (s *Service) ProcessDocument(ctx context.Context, documentID, filePath string) (*ProcessResult, error) {
	start := time.Now()
	log := s.logger.With("document_id", documentID)

	log.Info("Extracting text", "path", filePath)
	extracted, err := s.extractor.Extract(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	chunks := s.splitter.Split(extracted.Text)
	log.Info("Chunked document", "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	if len(texts) > 0 {
		embeddings, err = s.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embeddings: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("embeddings: got %d vectors for %d chunks", len(embeddings), len(chunks))
		}
	}

	name := collectionName(documentID)
	if err := s.store.DeleteCollection(ctx, name); err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}
	if err := s.store.CreateCollection(ctx, name); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	indexed := make([]*storage.IndexedChunk, len(chunks))
	for i, chunk := range chunks {
		indexed[i] = &storage.IndexedChunk{
			ChunkID:    fmt.Sprintf("chunk_%d", chunk.Index),
			ChunkIndex: chunk.Index,
			WordCount:  chunk.WordCount,
			DocumentID: documentID,
			Text:       chunk.Text,
			Embedding:  embeddings[i],
		}
	}
	if err := s.store.InsertChunks(ctx, name, indexed); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}

	elapsed := time.Since(start).Seconds()
	log.Info("Document processed", "chunks", len(chunks), "pages", extracted.PageCount, "seconds", elapsed)

	return &ProcessResult{
		Status:         "success",
		ChunkCount:     len(chunks),
		ProcessingTime: elapsed,
		PageCount:      extracted.PageCount,
		Message:        fmt.Sprintf("Successfully processed %d chunks", len(chunks)),
	}, nil
}
