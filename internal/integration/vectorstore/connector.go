package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/integration/common"
	pkghttp "github.com/avolkhin/docchat-backend/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector is a Qdrant REST client scoped to a single collection. A missing
// collection is treated as an empty store, not an error, so queries work
// before the first document is ever ingested.
type Connector struct {
	config    config.VectorStoreConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorStoreConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Retry.ToRetryOptions(), logger),
		config:    cfg,
		logger:    logger,
	}
}

// EnsureCollection creates the collection if it does not exist yet.
// PUT /collections/{collection}
func (c *Connector) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension: %d", dimension)
	}

	endpoint := "/collections/" + c.config.Collection

	err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("%w: check collection: %v", entity.ErrUpstreamUnavailable, err)
	}

	ctxzap.Info(ctx, "creating vector collection",
		zap.String("collection", c.config.Collection),
		zap.Int("dimension", dimension),
	)

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := c.connector.DoRequest(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return fmt.Errorf("%w: create collection: %v", entity.ErrUpstreamUnavailable, err)
	}

	return nil
}

// SubmitChunks upserts all chunks in a single call, so a failed submission
// leaves no partial document behind.
// PUT /collections/{collection}/points?wait=true
func (c *Connector) SubmitChunks(ctx context.Context, chunks []entity.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		points[i] = map[string]any{
			"id":     uuid.New().String(),
			"vector": ch.Vector,
			"payload": map[string]any{
				"document_id":   ch.Meta.DocumentID,
				"file_name":     ch.Meta.FileName,
				"uploaded_at":   ch.Meta.UploadedAt,
				"original_size": ch.Meta.OriginalSize,
				"chunk_index":   ch.Chunk.Index,
				"text":          ch.Chunk.Text,
			},
		}
	}

	ctxzap.Info(ctx, "submitting chunks to vector store", zap.Int("chunk_count", len(points)))

	endpoint := fmt.Sprintf("/collections/%s/points?wait=true", c.config.Collection)
	body := map[string]any{"points": points}
	if err := c.connector.DoRequest(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		ctxzap.Error(ctx, "failed to submit chunks", zap.Error(err))
		return fmt.Errorf("%w: upsert points: %v", entity.ErrUpstreamUnavailable, err)
	}

	return nil
}

// Search runs a similarity query and returns passages ordered by descending
// score. An absent collection yields an empty result.
// POST /collections/{collection}/points/search
func (c *Connector) Search(ctx context.Context, vector []float64, topK int) ([]entity.RetrievedPassage, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("/collections/%s/points/search", c.config.Collection)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: search points: %v", entity.ErrUpstreamUnavailable, err)
	}

	passages := make([]entity.RetrievedPassage, 0, len(resp.Result))
	for _, r := range resp.Result {
		p := entity.RetrievedPassage{
			Score:  clampScore(r.Score),
			Scored: true,
		}
		if v, ok := r.Payload["text"].(string); ok {
			p.Text = v
		}
		if v, ok := r.Payload["file_name"].(string); ok {
			p.Source = v
		}
		passages = append(passages, p)
	}

	ctxzap.Debug(ctx, "similarity search complete", zap.Int("result_count", len(passages)))

	return passages, nil
}

// CountPoints returns the number of stored points. Zero means the store has
// never received a document (or all documents were deleted), which is
// distinct from a query with zero matches.
// POST /collections/{collection}/points/count
func (c *Connector) CountPoints(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("/collections/%s/points/count", c.config.Collection)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, map[string]any{"exact": true}, &resp); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: count points: %v", entity.ErrUpstreamUnavailable, err)
	}

	return resp.Result.Count, nil
}

// DeleteDocument removes every point belonging to the document.
// POST /collections/{collection}/points/delete?wait=true
func (c *Connector) DeleteDocument(ctx context.Context, documentID string) error {
	req := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	endpoint := fmt.Sprintf("/collections/%s/points/delete?wait=true", c.config.Collection)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, nil); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("%w: delete points: %v", entity.ErrUpstreamUnavailable, err)
	}

	ctxzap.Info(ctx, "document points deleted", zap.String("document_id", documentID))

	return nil
}

func isNotFound(err error) bool {
	var httpErr *pkghttp.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
