package document

import (
	"context"
	"mime/multipart"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

// DocumentUsecase covers upload, listing and removal of documents.
type DocumentUsecase interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (*entity.Document, error)
	List(ctx context.Context) []entity.Document
	Get(ctx context.Context, id string) (*entity.Document, error)
	Delete(ctx context.Context, id string) error
}
