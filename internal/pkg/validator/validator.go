package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
)

// AllowedExtensions is the upload allow-list. Only plain-text formats are
// accepted; anything else is rejected before a document record is created.
var AllowedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Validator validates incoming requests against configured limits.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload checks a single uploaded file against the extension
// allow-list and the size limit.
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s (allowed: txt, md)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateSendMessage validates a chat request.
func (v *Validator) ValidateSendMessage(req *entity.SendMessageRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
