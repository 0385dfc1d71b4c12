// Package storage persists and searches indexed chunks in Qdrant.
// Each document gets its own collection, replaced wholesale whenever the
// document is reprocessed.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// insertBatchSize caps how many points go into a single upsert request.
const insertBatchSize = 100

// QdrantStore wraps the Qdrant client with connection management and
// per-document collection operations.
type QdrantStore struct {
	client    *qdrant.Client
	dimension uint64
	host      string
	port      int
}

// NewQdrantStore creates a Qdrant client and validates connectivity with
// a retried health check, failing fast when the server is unreachable.
// dimension is the embedding vector size every collection is created with.
func NewQdrantStore(host string, port int, dimension int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{
		client:    client,
		dimension: uint64(dimension),
		host:      host,
		port:      port,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry performs the startup health check with exponential
// backoff: initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantStore) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(exponentialBackoff, ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// CollectionExists reports whether the named collection is present.
func (s *QdrantStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	return exists, nil
}

// CreateCollection creates a fresh collection with cosine-distance
// vectors of the store's configured dimension.
func (s *QdrantStore) CreateCollection(ctx context.Context, name string) error {
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// DeleteCollection removes the named collection. Deleting a collection
// that does not exist is not an error.
func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	exists, err := s.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

// InsertChunks stores chunks with their embeddings in the named
// collection, batched in groups of 100. Point ids are derived
// deterministically from the collection name and chunk id so a
// reprocessed document overwrites rather than accumulates.
func (s *QdrantStore) InsertChunks(ctx context.Context, name string, chunks []*IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i, chunk := range chunks {
		if uint64(len(chunk.Embedding)) != s.dimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(chunk.Embedding), s.dimension)
		}
	}

	for i := 0; i < len(chunks); i += insertBatchSize {
		end := min(i+insertBatchSize, len(chunks))

		batch := chunks[i:end]
		points := make([]*qdrant.PointStruct, len(batch))
		for j, chunk := range batch {
			pointID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+"/"+chunk.ChunkID))
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(pointID.String()),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"chunk_id":    chunk.ChunkID,
					"chunk_index": chunk.ChunkIndex,
					"word_count":  chunk.WordCount,
					"document_id": chunk.DocumentID,
					"text":        chunk.Text,
				}),
			}
		}

		if err := s.upsertWithRetry(ctx, name, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// upsertWithRetry performs an upsert with exponential backoff.
func (s *QdrantStore) upsertWithRetry(ctx context.Context, name string, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: name,
			Points:         points,
		})
		return err
	}, backoff.WithContext(exponentialBackoff, ctx))
}

// Search runs a nearest-neighbor query over the named collection and
// returns up to limit hits in Qdrant's ranking order. Qdrant reports a
// cosine similarity score; Distance exposes its complement (1 - score)
// so lower always means more similar.
func (s *QdrantStore) Search(ctx context.Context, name string, vector []float32, limit int) ([]*SearchHit, error) {
	if uint64(len(vector)) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), s.dimension)
	}

	exists, err := s.CollectionExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", name, err)
	}

	hits := make([]*SearchHit, 0, len(results))
	for _, result := range results {
		payload := result.Payload
		hits = append(hits, &SearchHit{
			ChunkID:    payload["chunk_id"].GetStringValue(),
			ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
			WordCount:  int(payload["word_count"].GetIntegerValue()),
			DocumentID: payload["document_id"].GetStringValue(),
			Text:       payload["text"].GetStringValue(),
			Distance:   1 - float64(result.Score),
		})
	}

	return hits, nil
}

// CountChunks returns the number of points stored in the named collection.
func (s *QdrantStore) CountChunks(ctx context.Context, name string) (uint64, error) {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection %s: %w", name, err)
	}
	return info.GetPointsCount(), nil
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
