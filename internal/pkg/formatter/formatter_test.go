package formatter

import (
	"testing"
	"time"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessages() []entity.ChatMessage {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []entity.ChatMessage{
		{ID: "1", Role: entity.RoleUser, Content: "What color is the sky?", Timestamp: at},
		{
			ID:        "2",
			Role:      entity.RoleAssistant,
			Content:   "The sky is blue.",
			Timestamp: at.Add(time.Second),
			Sources:   []string{"weather.md"},
		},
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		format      entity.ExportFormat
		contentType string
		extension   string
	}{
		{entity.FormatMarkdown, markdownContentType, ".md"},
		{entity.FormatDOCX, docxContentType, ".docx"},
		{entity.FormatPDF, pdfContentType, ".pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := factory.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, f.ContentType())
			assert.Equal(t, tt.extension, f.FileExtension())
		})
	}
}

func TestFactoryCreateUnknownFormat(t *testing.T) {
	factory := NewFactory()

	_, err := factory.Create(entity.ExportFormat("xlsx"))
	require.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleMessages())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# "+baseTitle)
	assert.Contains(t, text, "**User**")
	assert.Contains(t, text, "**Assistant**")
	assert.Contains(t, text, "The sky is blue.")
	assert.Contains(t, text, "_Sources: weather.md_")
}

func TestMarkdownFormatEmptyConversation(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), baseTitle)
}

func TestPDFFormatProducesDocument(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleMessages())
	require.NoError(t, err)

	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestDOCXFormatProducesDocument(t *testing.T) {
	out, err := NewDOCXFormatter().Format(sampleMessages())
	require.NoError(t, err)

	// DOCX files are zip archives.
	require.Greater(t, len(out), 2)
	assert.Equal(t, "PK", string(out[:2]))
}
