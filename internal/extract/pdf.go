package extract

import (
	"bytes"
	"fmt"
	"strings"

	"transmate/internal/apperrors"
	"github.com/ledongthuc/pdf"
)

// fromPDF extracts the plain text of every page. Pages that fail to decode
// are skipped; the extraction only fails when the document itself is
// unreadable or yields no text at all.
func fromPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.Extraction("malformed PDF document", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Extraction("cannot open PDF document", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 && content != "" {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}

	text = sb.String()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.Extraction("no extractable text in PDF document", nil)
	}
	return text, nil
}
