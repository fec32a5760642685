package formatter

import (
	"fmt"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

const baseTitle = "Conversation Transcript"

// Formatter renders a conversation transcript into a downloadable document.
type Formatter interface {
	Format(messages []entity.ChatMessage) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}
