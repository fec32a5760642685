package modelconfig

import (
	"encoding/json"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/logger"
	"github.com/avolkhin/docchat-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	settings SettingsService
}

func NewHandler(settings SettingsService) *Handler {
	return &Handler{settings: settings}
}

// Get handles GET /config/model - Return the current model configuration
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.ModelConfigResponse{
		Config:  h.settings.Snapshot(),
		Success: true,
	})
}

// Update handles PUT /config/model - Apply a partial configuration update
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UpdateModelConfig")

	var upd entity.ModelConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := h.settings.Update(&upd)
	if err != nil {
		ctxzap.Warn(ctx, "rejected configuration update", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Invalid configuration values")
		return
	}

	ctxzap.Info(ctx, "model configuration updated",
		zap.Int("chunk_size", cfg.RAG.ChunkSize),
		zap.Int("chunk_overlap", cfg.RAG.ChunkOverlap),
		zap.Int("top_k", cfg.RAG.TopK),
	)

	response.Success(w, entity.UpdateModelConfigResponse{
		Message: "Model configuration updated successfully",
		Config:  cfg,
		Success: true,
	})
}
