package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/integration/common"
	pkghttp "github.com/avolkhin/docchat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible embeddings endpoint. Local
// llama.cpp-style servers accept the same request shape and ignore the
// bearer token.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Retry.ToRetryOptions(), logger),
		config:    cfg,
		logger:    logger,
	}
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// EmbedTexts returns one vector per input text, in input order.
// POST {service_url}/embeddings
func (c *Connector) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts", zap.Int("count", len(texts)))

	req := embedRequest{Input: texts, Model: c.config.Model}
	var resp embedResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, "/embeddings", req, &resp); err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: embeddings: %v", entity.ErrUpstreamUnavailable, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index out of range: %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}
