package extract

import (
	"bytes"
	"fmt"
	"strings"

	"transmate/internal/apperrors"
	docx "github.com/fumiama/go-docx"
)

// fromDocx concatenates the document body items, one line per paragraph.
func fromDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Extraction("cannot open DOCX document", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph, *docx.Table:
			if s := strings.TrimRight(fmt.Sprint(it), "\n"); s != "" {
				lines = append(lines, s)
			}
		}
	}

	if len(lines) == 0 {
		return "", apperrors.Extraction("no extractable text in DOCX document", nil)
	}
	return strings.Join(lines, "\n"), nil
}
