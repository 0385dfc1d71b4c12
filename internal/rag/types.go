package rag

// ProcessResult reports the outcome of indexing one document.
type ProcessResult struct {
	Status         string  `json:"status"`
	ChunkCount     int     `json:"chunkCount"`
	ProcessingTime float64 `json:"processingTime"`
	PageCount      int     `json:"pageCount"`
	Message        string  `json:"message"`
}

// Citation points at the evidence behind an answer. Page is the 1-based
// chunk position standing in for a human-facing location; Relevance is
// the distance-derived score in (0, 1].
type Citation struct {
	Page      int     `json:"page"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

// QueryResult is a synthesized answer with its supporting citations,
// ranked most relevant first. Confidence is the top citation's relevance,
// or 0 when nothing was retrieved.
type QueryResult struct {
	Answer         string     `json:"answer"`
	Sources        []Citation `json:"sources"`
	ProcessingTime float64    `json:"processingTime"`
	Confidence     float64    `json:"confidence"`
}
