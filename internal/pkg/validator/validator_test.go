package validator

import (
	"mime/multipart"
	"testing"

	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxFileSize:   1024,
		MaxUploadSize: 2048,
	})
}

func TestValidateUploadAccepted(t *testing.T) {
	v := newValidator()

	for _, name := range []string{"notes.txt", "readme.md", "UPPER.TXT", "mixed.Md"} {
		err := v.ValidateUpload(&multipart.FileHeader{Filename: name, Size: 100})
		assert.NoError(t, err, "%s should be accepted", name)
	}
}

func TestValidateUploadNilFile(t *testing.T) {
	v := newValidator()

	err := v.ValidateUpload(nil)
	require.ErrorIs(t, err, entity.ErrMissingField)
}

func TestValidateUploadRejectedExtension(t *testing.T) {
	v := newValidator()

	for _, name := range []string{"doc.pdf", "image.png", "archive.tar.gz", "noext"} {
		err := v.ValidateUpload(&multipart.FileHeader{Filename: name, Size: 100})
		assert.ErrorIs(t, err, entity.ErrInvalidExtension, "%s should be rejected", name)
	}
}

func TestValidateUploadTooLarge(t *testing.T) {
	v := newValidator()

	err := v.ValidateUpload(&multipart.FileHeader{Filename: "big.txt", Size: 2048})
	require.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestValidateUploadAtLimit(t *testing.T) {
	v := newValidator()

	err := v.ValidateUpload(&multipart.FileHeader{Filename: "exact.txt", Size: 1024})
	assert.NoError(t, err)
}

func TestValidateSendMessage(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateSendMessage(&entity.SendMessageRequest{Message: "hello"}))

	assert.ErrorIs(t, v.ValidateSendMessage(&entity.SendMessageRequest{Message: ""}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateSendMessage(&entity.SendMessageRequest{Message: "   "}), entity.ErrMissingField)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_file.txt", SanitizeFilename("my file.txt"))
	assert.Equal(t, "notes1.md", SanitizeFilename("notes(1).md"))
	assert.Equal(t, "doc.txt", SanitizeFilename("../../etc/doc.txt"))
}
