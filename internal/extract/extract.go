// Package extract pulls plain text out of uploaded documents. Supported
// formats are .txt (with encoding detection), .docx and .pdf; anything else
// is rejected before the bytes are touched.
package extract

import (
	"path/filepath"
	"strings"

	"transmate/internal/apperrors"
)

// SupportedExtensions lists the upload formats the service accepts.
var SupportedExtensions = []string{".txt", ".docx", ".pdf"}

// FromUpload extracts UTF-8 text from an uploaded file, dispatching on the
// filename extension.
func FromUpload(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.InvalidArgument("uploaded file is empty")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return DecodeText(data), nil
	case ".docx":
		return fromDocx(data)
	case ".pdf":
		return fromPDF(data)
	default:
		return "", apperrors.InvalidArgument(
			"unsupported file type, expected one of: " + strings.Join(SupportedExtensions, ", "))
	}
}
