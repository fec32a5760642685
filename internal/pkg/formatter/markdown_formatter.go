package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(messages []entity.ChatMessage) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	for _, msg := range messages {
		fmt.Fprintf(&buf, "**%s** (%s):\n\n%s\n\n", roleLabel(msg.Role), msg.Timestamp.Format(time.RFC3339), msg.Content)
		if len(msg.Sources) > 0 {
			fmt.Fprintf(&buf, "_Sources: %s_\n\n", strings.Join(msg.Sources, ", "))
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

func roleLabel(role entity.MessageRole) string {
	switch role {
	case entity.RoleUser:
		return "User"
	case entity.RoleAssistant:
		return "Assistant"
	}
	return string(role)
}
