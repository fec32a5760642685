package chat

import (
	"context"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// retrieve embeds the query and runs a topK similarity search. No matches is
// an empty slice, not an error, and nothing is deduplicated: several chunks
// of the same document may rank independently.
func (uc *Usecase) retrieve(ctx context.Context, query string) ([]entity.RetrievedPassage, error) {
	cfg := uc.settings.Snapshot()

	vectors, err := uc.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	passages, err := uc.store.Search(ctx, vectors[0], cfg.RAG.TopK)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "passages retrieved",
		zap.Int("count", len(passages)),
		zap.Int("top_k", cfg.RAG.TopK),
	)

	return passages, nil
}
