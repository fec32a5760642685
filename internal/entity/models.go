package entity

import (
	"time"
)

type DocumentStatus string

// Document status represents the ingestion lifecycle of an uploaded file.
// A document starts in processing and ends in ready or error; the transition
// is one-way and terminal.
const (
	DocumentStatusProcessing DocumentStatus = "processing" // Upload accepted, ingestion in flight
	DocumentStatusReady      DocumentStatus = "ready"      // Chunks embedded and stored
	DocumentStatusError      DocumentStatus = "error"      // Ingestion failed, not retried
)

// Document is an uploaded file tracked through its ingestion lifecycle.
type Document struct {
	ID          string
	Name        string
	Extension   string
	Size        int64
	UploadedAt  time.Time
	Status      DocumentStatus
	StoragePath string
}

// Chunk is one window of a document's text sized for embedding. Chunks are
// exact substrings of the source text; consecutive chunks overlap so local
// context survives the cut.
type Chunk struct {
	Text  string
	Index int
}

// ChunkMetadata travels with every chunk of a document into the vector store.
type ChunkMetadata struct {
	DocumentID   string
	FileName     string
	UploadedAt   time.Time
	OriginalSize int64
}

// EmbeddedChunk pairs a chunk with its embedding vector and document
// metadata, ready for submission to the vector store.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float64
	Meta   ChunkMetadata
}

// RetrievedPassage is a scored chunk returned by a similarity query,
// ordered by descending relevance. Scored is false when the store returned
// no score for the point.
type RetrievedPassage struct {
	Text   string
	Source string
	Score  float64
	Scored bool
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn of the conversation. Immutable once appended to
// the history; a streaming assistant message is appended only after its
// terminal event.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Sources   []string    `json:"sources,omitempty"`
}

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)
