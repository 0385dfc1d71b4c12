package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/documind/ai-service/internal/storage"
)

// snippetLength is how many characters of a retrieved chunk make it into
// a citation snippet.
const snippetLength = 200

// noContextAnswer is returned when the search yields nothing. The
// synthesizer is not invoked in that case.
const noContextAnswer = "No relevant content was found in the document for this question."

// Query answers a question about a previously indexed document. It embeds
// the question, retrieves the topK nearest chunks, synthesizes an answer
// grounded in them, and scores each retrieved chunk as a citation.
// Returns ErrDocumentNotIndexed when the document has no collection.
func (s *Service) Query(ctx context.Context, documentID, query string, topK int) (*QueryResult, error) {
	start := time.Now()
	if topK <= 0 {
		topK = s.opts.TopK
	}
	log := s.logger.With("document_id", documentID)

	name := collectionName(documentID)
	exists, err := s.store.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotIndexed, documentID)
	}

	embeddings, err := s.embedder.GenerateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, name, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	log.Info("Retrieved chunks", "count", len(hits), "top_k", topK)

	if len(hits) == 0 {
		return &QueryResult{
			Answer:         noContextAnswer,
			Sources:        []Citation{},
			ProcessingTime: time.Since(start).Seconds(),
			Confidence:     0.0,
		}, nil
	}

	answer, err := s.synth.Complete(ctx, buildPrompt(hits, query), s.opts.MaxTokens, s.opts.Temperature)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	sources := make([]Citation, len(hits))
	for i, hit := range hits {
		sources[i] = Citation{
			Page:      hit.ChunkIndex + 1,
			Snippet:   snippet(hit.Text),
			Relevance: relevance(hit.Distance),
		}
	}

	elapsed := time.Since(start).Seconds()
	log.Info("Query answered", "confidence", sources[0].Relevance, "seconds", elapsed)

	return &QueryResult{
		Answer:         answer,
		Sources:        sources,
		ProcessingTime: elapsed,
		Confidence:     sources[0].Relevance,
	}, nil
}

// buildPrompt assembles the grounded-answer prompt: retrieved chunks in
// ranked order under 1-based [Chunk i] labels, the question, and a fixed
// instruction block.
func buildPrompt(hits []*storage.SearchHit, query string) string {
	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = fmt.Sprintf("[Chunk %d]\n%s", i+1, hit.Text)
	}

	return fmt.Sprintf(`You are a helpful AI assistant that answers questions based strictly on the provided document context.

Context from document:
%s

Question: %s

Instructions:
- Answer based ONLY on the information in the context above
- If the context doesn't contain enough information to answer, say so
- Be specific and cite which chunk(s) support your answer
- Keep your answer concise and focused

Answer:`, strings.Join(contexts, "\n\n"), query)
}

// relevance converts a distance to a similarity score in (0, 1]: exactly
// 1 at zero distance, strictly decreasing as distance grows.
func relevance(distance float64) float64 {
	return 1 / (1 + distance)
}

// snippet returns the first 200 characters of text with a trailing
// ellipsis, always appended regardless of length.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLength {
		runes = runes[:snippetLength]
	}
	return string(runes) + "..."
}
