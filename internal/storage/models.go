package storage

// IndexedChunk is a document fragment ready for storage: text, embedding
// and retrieval metadata. ChunkID is the stable external identifier
// ("chunk_0", "chunk_1", ...) unique within the document's collection.
type IndexedChunk struct {
	ChunkID    string
	ChunkIndex int
	WordCount  int
	DocumentID string
	Text       string
	Embedding  []float32
}

// SearchHit is one similarity-search result. Distance is the collection's
// cosine distance: 0 means identical direction, larger means less similar.
type SearchHit struct {
	ChunkID    string
	ChunkIndex int
	WordCount  int
	DocumentID string
	Text       string
	Distance   float64
}
