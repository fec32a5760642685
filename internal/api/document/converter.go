package document

import "github.com/avolkhin/docchat-backend/internal/entity"

// toDocumentDTO converts a Document entity to its wire representation.
func toDocumentDTO(d *entity.Document) entity.DocumentDTO {
	return entity.DocumentDTO{
		ID:         d.ID,
		Name:       d.Name,
		Type:       d.Extension,
		Size:       d.Size,
		UploadTime: d.UploadedAt,
		Status:     string(d.Status),
	}
}
