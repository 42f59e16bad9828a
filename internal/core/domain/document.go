package domain

import "time"

// DocumentMeta is the provenance record attached to every loaded document
// and inherited by each chunk cut from it. Fields that only apply to one
// format stay zero for the others; Extra carries forward-compatible
// key/value pairs without widening the struct.
type DocumentMeta struct {
	Source     string            `json:"source"`
	Page       int               `json:"page,omitempty"`
	TotalPages int               `json:"total_pages,omitempty"`
	DocType    string            `json:"doc_type,omitempty"`
	CharCount  int               `json:"char_count,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Document is one unit of loaded text. Immutable once produced by a loader.
type Document struct {
	Text string       `json:"text"`
	Meta DocumentMeta `json:"meta"`
}

// Chunk is a bounded sub-span of a document's text, the unit of indexing
// and retrieval. ChunkID is contiguous across the whole ingestion batch,
// not per document.
type Chunk struct {
	Text        string       `json:"text"`
	Meta        DocumentMeta `json:"meta"`
	ChunkID     int          `json:"chunk_id"`
	ChunkSize   int          `json:"chunk_size"`
	TotalChunks int          `json:"total_chunks"`
}

type IngestStatus string

const (
	StatusUploaded   IngestStatus = "uploaded"
	StatusProcessing IngestStatus = "processing"
	StatusReady      IngestStatus = "ready"
	StatusFailed     IngestStatus = "failed"
)

// DocumentRecord tracks one uploaded file through the ingestion pipeline.
type DocumentRecord struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	StoragePath string       `json:"storage_path"`
	Status      IngestStatus `json:"status"`
	ChunkCount  int          `json:"chunk_count"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
