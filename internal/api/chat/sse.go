package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// streamResponse writes the event sequence for one query as server-sent
// events. The producer is detached from the request, so on client disconnect
// the channel is drained to completion instead of abandoned.
func (h *Handler) streamResponse(ctx context.Context, w http.ResponseWriter, message string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		ctxzap.Error(ctx, "response writer does not support streaming")
		response.Error(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.usecase.SendMessageStream(ctx, message)

	clientGone := false
	for ev := range events {
		if clientGone {
			continue
		}

		data, err := json.Marshal(ev)
		if err != nil {
			ctxzap.Error(ctx, "failed to encode stream event", zap.Error(err))
			continue
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			ctxzap.Warn(ctx, "client disconnected, draining stream", zap.Error(err))
			clientGone = true
			continue
		}
		flusher.Flush()
	}
}
