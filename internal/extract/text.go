package extract

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw text bytes to a UTF-8 string. Valid UTF-8 passes
// through (BOM stripped), then EUC-KR/CP949 is tried, and Latin-1 is the
// final fallback so decoding never fails outright.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	// The decoder substitutes U+FFFD for invalid input rather than failing,
	// so a replacement rune in the result means this was not EUC-KR.
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded)
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded)
}
