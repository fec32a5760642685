package formatter

import (
	"bytes"
	"strings"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(messages []entity.ChatMessage) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(baseTitle)

	for _, msg := range messages {
		doc.AddParagraph()

		rolePar := doc.AddParagraph()
		roleRun := rolePar.AddRun()
		roleRun.Properties().SetBold(true)
		roleRun.AddText(roleLabel(msg.Role))

		bodyPar := doc.AddParagraph()
		bodyRun := bodyPar.AddRun()
		bodyRun.AddText(msg.Content)

		if len(msg.Sources) > 0 {
			srcPar := doc.AddParagraph()
			srcRun := srcPar.AddRun()
			srcRun.Properties().SetItalic(true)
			srcRun.AddText("Sources: " + strings.Join(msg.Sources, ", "))
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
