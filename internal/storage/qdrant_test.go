//go:build integration

package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 4

// setupTestStore connects to a local Qdrant instance.
// Skips the test when Qdrant is not running.
func setupTestStore(t *testing.T) *QdrantStore {
	store, err := NewQdrantStore("localhost", 6334, testDimension)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}
	return store
}

func testChunks(n int) []*IndexedChunk {
	chunks := make([]*IndexedChunk, n)
	for i := range chunks {
		vec := make([]float32, testDimension)
		vec[i%testDimension] = 1
		chunks[i] = &IndexedChunk{
			ChunkID:    fmt.Sprintf("chunk_%d", i),
			ChunkIndex: i,
			WordCount:  100,
			DocumentID: "doc-it",
			Text:       fmt.Sprintf("chunk %d text", i),
			Embedding:  vec,
		}
	}
	return chunks
}

func TestInsertAndSearchRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	name := "doc_it_roundtrip"
	require.NoError(t, store.DeleteCollection(ctx, name))
	require.NoError(t, store.CreateCollection(ctx, name))
	defer store.DeleteCollection(ctx, name)

	require.NoError(t, store.InsertChunks(ctx, name, testChunks(3)))

	query := []float32{1, 0, 0, 0}
	hits, err := store.Search(ctx, name, query, 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	// Best hit is the chunk whose vector matches the query exactly.
	top := hits[0]
	assert.Equal(t, "chunk_0", top.ChunkID)
	assert.Equal(t, 0, top.ChunkIndex)
	assert.Equal(t, "doc-it", top.DocumentID)
	assert.Equal(t, "chunk 0 text", top.Text)
	assert.InDelta(t, 0.0, top.Distance, 1e-5)

	// Distances never decrease down the ranking.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
}

func TestDeleteCollectionIdempotent(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	name := "doc_it_missing"
	require.NoError(t, store.DeleteCollection(ctx, name))
	require.NoError(t, store.DeleteCollection(ctx, name))

	exists, err := store.CollectionExists(ctx, name)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearchMissingCollection(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	_, err := store.Search(context.Background(), "doc_it_absent", []float32{1, 0, 0, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestInsertDimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	name := "doc_it_dims"
	require.NoError(t, store.DeleteCollection(ctx, name))
	require.NoError(t, store.CreateCollection(ctx, name))
	defer store.DeleteCollection(ctx, name)

	bad := []*IndexedChunk{{
		ChunkID:    "chunk_0",
		DocumentID: "doc-it",
		Text:       "bad vector",
		Embedding:  []float32{1, 0},
	}}
	err := store.InsertChunks(ctx, name, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestReinsertOverwritesPoints(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	name := "doc_it_reinsert"
	require.NoError(t, store.DeleteCollection(ctx, name))
	require.NoError(t, store.CreateCollection(ctx, name))
	defer store.DeleteCollection(ctx, name)

	require.NoError(t, store.InsertChunks(ctx, name, testChunks(4)))
	require.NoError(t, store.InsertChunks(ctx, name, testChunks(4)))

	// Deterministic point ids make the second insert an overwrite.
	count, err := store.CountChunks(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}
