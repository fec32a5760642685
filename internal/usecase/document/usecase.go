package document

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/avolkhin/docchat-backend/internal/chunker"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/logger"
	"github.com/avolkhin/docchat-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase implements the document lifecycle: upload, detached ingestion,
// listing, status lookup and deletion.
type Usecase struct {
	docs     repository.DocumentRepository
	files    FileStore
	embedder EmbeddingConnector
	store    VectorStoreConnector
	settings Settings
	logger   *zap.Logger
}

func NewUsecase(
	docs repository.DocumentRepository,
	files FileStore,
	embedder EmbeddingConnector,
	store VectorStoreConnector,
	settings Settings,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		docs:     docs,
		files:    files,
		embedder: embedder,
		store:    store,
		settings: settings,
		logger:   logger,
	}
}

// Upload stores the file, registers a document in processing state and
// spawns the ingestion task. The caller gets the record back immediately;
// completion is observed by polling the document's status.
func (uc *Usecase) Upload(ctx context.Context, fh *multipart.FileHeader) (*entity.Document, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", entity.ErrInvalidFile, err)
	}
	defer src.Close()

	path, err := uc.files.Save(fh.Filename, src)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	doc := entity.Document{
		ID:          uuid.New().String(),
		Name:        fh.Filename,
		Extension:   strings.ToLower(filepath.Ext(fh.Filename)),
		Size:        fh.Size,
		UploadedAt:  time.Now(),
		Status:      entity.DocumentStatusProcessing,
		StoragePath: path,
	}
	uc.docs.Create(doc)

	ctxzap.Info(ctx, "document registered",
		zap.String("document_id", doc.ID),
		zap.String("file_name", doc.Name),
		zap.Int64("size", doc.Size),
	)

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("document_id", doc.ID),
			zap.String("action", "Ingest-async"),
		)

		uc.ingest(bgCtx, doc)
	}()

	return &doc, nil
}

// ingest runs the pipeline for one document: read content, chunk, embed,
// submit to the vector store. Any failure marks the document error and is
// logged, never surfaced to the uploader; there are no retries.
func (uc *Usecase) ingest(ctx context.Context, doc entity.Document) {
	content, err := uc.files.ReadAll(doc.StoragePath)
	if err != nil {
		uc.fail(ctx, doc.ID, "read document content", err)
		return
	}

	cfg := uc.settings.Snapshot()
	chunks, err := chunker.Split(string(content), cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		uc.fail(ctx, doc.ID, "chunk document", err)
		return
	}

	ctxzap.Info(ctx, "document chunked",
		zap.Int("chunk_count", len(chunks)),
		zap.Int("chunk_size", cfg.RAG.ChunkSize),
		zap.Int("chunk_overlap", cfg.RAG.ChunkOverlap),
	)

	if len(chunks) == 0 {
		// Nothing to index; an empty document is still ready.
		uc.docs.SetStatus(doc.ID, entity.DocumentStatusReady)
		return
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := uc.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		uc.fail(ctx, doc.ID, "embed chunks", err)
		return
	}

	if err := uc.store.EnsureCollection(ctx, len(vectors[0])); err != nil {
		uc.fail(ctx, doc.ID, "ensure collection", err)
		return
	}

	meta := entity.ChunkMetadata{
		DocumentID:   doc.ID,
		FileName:     doc.Name,
		UploadedAt:   doc.UploadedAt,
		OriginalSize: doc.Size,
	}

	// Staged commit: every chunk is embedded before anything is submitted,
	// and submission is a single call, so a failure cannot leave a partial
	// document in the store.
	embedded := make([]entity.EmbeddedChunk, len(chunks))
	for i, ch := range chunks {
		embedded[i] = entity.EmbeddedChunk{Chunk: ch, Vector: vectors[i], Meta: meta}
	}

	if err := uc.store.SubmitChunks(ctx, embedded); err != nil {
		uc.fail(ctx, doc.ID, "submit chunks", err)
		return
	}

	uc.docs.SetStatus(doc.ID, entity.DocumentStatusReady)
	ctxzap.Info(ctx, "document ingested successfully", zap.Int("chunk_count", len(chunks)))
}

func (uc *Usecase) fail(ctx context.Context, docID, step string, err error) {
	ctxzap.Error(ctx, "ingestion failed",
		zap.String("step", step),
		zap.Error(err),
	)
	uc.docs.SetStatus(docID, entity.DocumentStatusError)
}

// List returns all known documents, oldest upload first.
func (uc *Usecase) List(ctx context.Context) []entity.Document {
	return uc.docs.List()
}

// Get returns a single document or ErrDocumentNotFound.
func (uc *Usecase) Get(ctx context.Context, id string) (*entity.Document, error) {
	return uc.docs.Get(id)
}

// Delete removes the document record, its stored file and its points in the
// vector store. File and store cleanup are best-effort: a missing backing
// file is logged and the record is still removed.
func (uc *Usecase) Delete(ctx context.Context, id string) error {
	doc, err := uc.docs.Get(id)
	if err != nil {
		return err
	}

	if err := uc.files.Delete(doc.StoragePath); err != nil {
		ctxzap.Warn(ctx, "failed to delete stored file",
			zap.String("storage_path", doc.StoragePath),
			zap.Error(err),
		)
	}

	if err := uc.store.DeleteDocument(ctx, id); err != nil {
		ctxzap.Warn(ctx, "failed to delete document points", zap.Error(err))
	}

	uc.docs.Delete(id)

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", id))

	return nil
}
