package document

import (
	"context"
	"errors"
	"net/http"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/logger"
	"github.com/avolkhin/docchat-backend/internal/pkg/response"
	"github.com/avolkhin/docchat-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase       DocumentUsecase
	validator     *validator.Validator
	maxUploadSize int64
}

func NewHandler(usecase DocumentUsecase, validator *validator.Validator, maxUploadSize int64) *Handler {
	return &Handler{
		usecase:       usecase,
		validator:     validator,
		maxUploadSize: maxUploadSize,
	}
}

// Upload handles POST /documents/upload - Upload a document for ingestion
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Error(ctx, "missing file in form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file.Close()

	if err := h.validator.ValidateUpload(header); err != nil {
		h.handleUsecaseError(ctx, w, err, "Failed to upload file")
		return
	}

	ctxzap.Info(ctx, "uploading document",
		zap.String("file_name", header.Filename),
		zap.Int64("size_bytes", header.Size),
	)

	doc, err := h.usecase.Upload(ctx, header)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "Failed to upload file")
		return
	}

	response.Created(w, entity.UploadDocumentResponse{
		Message:  "File uploaded successfully",
		Document: toDocumentDTO(doc),
	})
}

// List handles GET /documents - List all documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs := h.usecase.List(ctx)

	dtos := make([]entity.DocumentDTO, 0, len(docs))
	for i := range docs {
		dtos = append(dtos, toDocumentDTO(&docs[i]))
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(dtos)))

	response.Success(w, entity.ListDocumentsResponse{Documents: dtos})
}

// Status handles GET /documents/{id}/status - Get ingestion status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", id),
		zap.String("action", "GetDocumentStatus"),
	)

	doc, err := h.usecase.Get(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "Failed to get document status")
		return
	}

	response.Success(w, entity.DocumentStatusResponse{
		ID:     doc.ID,
		Name:   doc.Name,
		Status: string(doc.Status),
	})
}

// Delete handles DELETE /documents/{id} - Remove a document and its vectors
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", id),
		zap.String("action", "DeleteDocument"),
	)

	if err := h.usecase.Delete(ctx, id); err != nil {
		h.handleUsecaseError(ctx, w, err, "Failed to delete document")
		return
	}

	ctxzap.Info(ctx, "document deleted")

	response.Success(w, map[string]string{
		"message": "Document deleted successfully",
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error, internalMsg string) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		response.Error(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, entity.ErrInvalidExtension):
		response.Error(w, http.StatusBadRequest, "Only .txt and .md files are supported")
	case errors.Is(err, entity.ErrFileTooLarge), errors.Is(err, entity.ErrInvalidFile):
		response.Error(w, http.StatusBadRequest, "Invalid file")
	default:
		response.Error(w, http.StatusInternalServerError, internalMsg)
	}
}
