package domain

// Chunk is a span of document text stored in the vector index.
// Chunks are global knowledge shared across all sessions, keyed by a
// synthetic id, and never touch the relational store.
type Chunk struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Index     int       `json:"chunk_index"`
	Embedding []float32 `json:"-"`
}

// UploadResponse is the response after ingesting a document
type UploadResponse struct {
	Message    string `json:"message"`
	ChunkCount int    `json:"chunk_count"`
	Source     string `json:"source"`
}
