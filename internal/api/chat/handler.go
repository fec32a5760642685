package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/formatter"
	"github.com/avolkhin/docchat-backend/internal/pkg/logger"
	"github.com/avolkhin/docchat-backend/internal/pkg/response"
	"github.com/avolkhin/docchat-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// SendMessage handles POST /chat/message - Answer a question, optionally streamed
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	ctxzap.Info(ctx, "processing chat message",
		zap.Int("message_length", len(req.Message)),
		zap.Bool("stream", req.Stream),
	)

	if req.Stream {
		h.streamResponse(ctx, w, req.Message)
		return
	}

	msg, err := h.usecase.SendMessage(ctx, req.Message)
	if err != nil {
		ctxzap.Error(ctx, "failed to process message", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	response.Success(w, entity.SendMessageResponse{
		Message: msg,
		Success: true,
	})
}

// GetHistory handles GET /chat/history - Return the conversation
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetHistory")

	history := h.usecase.GetHistory(ctx)
	if history == nil {
		history = []entity.ChatMessage{}
	}

	ctxzap.Debug(ctx, "history fetched", zap.Int("messages", len(history)))

	response.Success(w, entity.HistoryResponse{
		History: history,
		Success: true,
	})
}

// ClearHistory handles DELETE /chat/clear - Reset the conversation
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearHistory")

	h.usecase.ClearHistory(ctx)

	response.Success(w, entity.ClearHistoryResponse{
		Message: "Chat history cleared successfully",
		Success: true,
	})
}

// Export handles GET /chat/export - Download the conversation transcript
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportHistory")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	factory := formatter.NewFactory()
	fmtr, err := factory.Create(entity.ExportFormat(formatParam))
	if err != nil {
		if errors.Is(err, entity.ErrUnsupportedFormat) {
			ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
			response.Error(w, http.StatusBadRequest, "Format must be one of: markdown, docx, pdf")
			return
		}
		ctxzap.Error(ctx, "failed to create formatter", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to export chat history")
		return
	}

	history := h.usecase.GetHistory(ctx)

	data, err := fmtr.Format(history)
	if err != nil {
		ctxzap.Error(ctx, "failed to format transcript", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to export chat history")
		return
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", formatParam),
		zap.Int("bytes", len(data)),
	)

	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"chat-transcript%s\"", fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
