package document

import (
	"context"
	"io"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

// FileStore is the on-disk home for uploaded files.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	ReadAll(path string) ([]byte, error)
	Delete(path string) error
}

// EmbeddingConnector computes embedding vectors for texts.
type EmbeddingConnector interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStoreConnector is the ingestion-side surface of the vector store.
type VectorStoreConnector interface {
	EnsureCollection(ctx context.Context, dimension int) error
	SubmitChunks(ctx context.Context, chunks []entity.EmbeddedChunk) error
	DeleteDocument(ctx context.Context, documentID string) error
}

// Settings exposes the current model configuration snapshot.
type Settings interface {
	Snapshot() entity.ModelConfig
}
