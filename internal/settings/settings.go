// Package settings holds the runtime-mutable model configuration. The
// reference behavior allows editing retrieval knobs over the API while the
// process runs; this service replaces a shared mutable config object with an
// explicit lock-guarded snapshot holder passed to whoever needs it.
package settings

import (
	"fmt"
	"sync"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

type Service struct {
	mu      sync.RWMutex
	current entity.ModelConfig
}

func NewService(initial entity.ModelConfig) *Service {
	return &Service{current: initial}
}

// Snapshot returns a copy of the current configuration.
func (s *Service) Snapshot() entity.ModelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges the partial update field by field; nil fields keep their
// current value. The merged result is validated against the same bounds the
// boot-time config enforces before it is committed; a rejected update leaves
// the current configuration untouched. Returns the resulting snapshot.
func (s *Service) Update(upd *entity.ModelConfigUpdate) (entity.ModelConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.current
	if upd.Embedding != nil {
		merged.Embedding = *upd.Embedding
	}
	if upd.Generation != nil {
		merged.Generation = *upd.Generation
	}
	if upd.RAG != nil {
		if upd.RAG.ChunkSize != nil {
			merged.RAG.ChunkSize = *upd.RAG.ChunkSize
		}
		if upd.RAG.ChunkOverlap != nil {
			merged.RAG.ChunkOverlap = *upd.RAG.ChunkOverlap
		}
		if upd.RAG.TopK != nil {
			merged.RAG.TopK = *upd.RAG.TopK
		}
		if upd.RAG.HybridSearch != nil {
			merged.RAG.HybridSearch = *upd.RAG.HybridSearch
		}
		if upd.RAG.RerankingEnabled != nil {
			merged.RAG.RerankingEnabled = *upd.RAG.RerankingEnabled
		}
	}

	if err := validateRAG(merged.RAG); err != nil {
		return s.current, err
	}

	s.current = merged
	return s.current, nil
}

func validateRAG(rag entity.RAGSettings) error {
	if rag.ChunkSize < 1 {
		return fmt.Errorf("%w: chunkSize must be positive, got %d", entity.ErrInvalidParameter, rag.ChunkSize)
	}
	if rag.ChunkOverlap < 0 || rag.ChunkOverlap >= rag.ChunkSize {
		return fmt.Errorf("%w: chunkOverlap must be non-negative and smaller than chunkSize, got %d",
			entity.ErrInvalidParameter, rag.ChunkOverlap)
	}
	if rag.TopK < 1 {
		return fmt.Errorf("%w: topK must be positive, got %d", entity.ErrInvalidParameter, rag.TopK)
	}
	return nil
}
