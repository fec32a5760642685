package chat

import (
	"context"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

// EmbeddingConnector computes embedding vectors for texts.
type EmbeddingConnector interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStoreConnector is the query-side surface of the vector store.
type VectorStoreConnector interface {
	Search(ctx context.Context, vector []float64, topK int) ([]entity.RetrievedPassage, error)
	CountPoints(ctx context.Context) (int, error)
}

// History is the conversation log.
type History interface {
	Append(msg entity.ChatMessage)
	List() []entity.ChatMessage
	Clear()
}

// Settings exposes the current model configuration snapshot.
type Settings interface {
	Snapshot() entity.ModelConfig
}
