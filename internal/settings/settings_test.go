package settings

import (
	"testing"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initial() entity.ModelConfig {
	return entity.ModelConfig{
		Embedding:  "http://localhost:8080/v1",
		Generation: "http://localhost:8081/v1",
		RAG: entity.RAGSettings{
			ChunkSize:        512,
			ChunkOverlap:     50,
			TopK:             5,
			HybridSearch:     true,
			RerankingEnabled: true,
		},
	}
}

func TestSnapshotReturnsInitial(t *testing.T) {
	svc := NewService(initial())
	assert.Equal(t, initial(), svc.Snapshot())
}

func TestUpdatePartialRAG(t *testing.T) {
	svc := NewService(initial())

	chunkSize := 256
	topK := 3
	got, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{
			ChunkSize: &chunkSize,
			TopK:      &topK,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 256, got.RAG.ChunkSize)
	assert.Equal(t, 3, got.RAG.TopK)

	// Untouched fields keep their values.
	assert.Equal(t, 50, got.RAG.ChunkOverlap)
	assert.True(t, got.RAG.HybridSearch)
	assert.Equal(t, "http://localhost:8080/v1", got.Embedding)
}

func TestUpdateEndpoints(t *testing.T) {
	svc := NewService(initial())

	embedding := "http://embeddings.internal/v1"
	got, err := svc.Update(&entity.ModelConfigUpdate{Embedding: &embedding})
	require.NoError(t, err)

	assert.Equal(t, embedding, got.Embedding)
	assert.Equal(t, "http://localhost:8081/v1", got.Generation)
}

func TestUpdateEmptyIsNoop(t *testing.T) {
	svc := NewService(initial())

	got, err := svc.Update(&entity.ModelConfigUpdate{})
	require.NoError(t, err)

	assert.Equal(t, initial(), got)
}

func TestUpdatePersistsAcrossSnapshots(t *testing.T) {
	svc := NewService(initial())

	reranking := false
	_, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{RerankingEnabled: &reranking},
	})
	require.NoError(t, err)

	assert.False(t, svc.Snapshot().RAG.RerankingEnabled)
}

func TestUpdateRejectsOverlapNotBelowChunkSize(t *testing.T) {
	svc := NewService(initial())

	overlap := 600
	_, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{ChunkOverlap: &overlap},
	})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)

	// A rejected update leaves the configuration untouched.
	assert.Equal(t, initial(), svc.Snapshot())
}

func TestUpdateRejectsNonPositiveChunkSize(t *testing.T) {
	svc := NewService(initial())

	chunkSize := 0
	_, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{ChunkSize: &chunkSize},
	})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Equal(t, initial(), svc.Snapshot())
}

func TestUpdateRejectsNonPositiveTopK(t *testing.T) {
	svc := NewService(initial())

	topK := 0
	_, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{TopK: &topK},
	})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Equal(t, initial(), svc.Snapshot())
}

// Shrinking chunkSize below the current overlap is only valid when the
// overlap shrinks with it; the bounds apply to the merged result.
func TestUpdateValidatesMergedResult(t *testing.T) {
	svc := NewService(initial())

	chunkSize := 40
	_, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{ChunkSize: &chunkSize},
	})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)

	overlap := 10
	got, err := svc.Update(&entity.ModelConfigUpdate{
		RAG: &entity.RAGSettingsUpdate{ChunkSize: &chunkSize, ChunkOverlap: &overlap},
	})
	require.NoError(t, err)
	assert.Equal(t, 40, got.RAG.ChunkSize)
	assert.Equal(t, 10, got.RAG.ChunkOverlap)
}
