package extract

import (
	"net/http"
	"strings"
	"testing"

	"transmate/internal/apperrors"
)

func TestDecodeTextUTF8(t *testing.T) {
	in := "hello 세계\n둘째 줄"
	if got := DecodeText([]byte(in)); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestDecodeTextStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("with bom")...)
	if got := DecodeText(data); got != "with bom" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeTextEUCKR(t *testing.T) {
	// "한글" encoded as EUC-KR. Invalid as UTF-8.
	data := []byte{0xC7, 0xD1, 0xB1, 0xDB}
	if got := DecodeText(data); got != "한글" {
		t.Fatalf("got %q, want %q", got, "한글")
	}
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	// 0xE9 alone is neither valid UTF-8 nor a complete EUC-KR sequence.
	data := []byte{'c', 'a', 'f', 0xE9}
	if got := DecodeText(data); got != "café" {
		t.Fatalf("got %q, want %q", got, "café")
	}
}

func TestFromUploadTxt(t *testing.T) {
	out, err := FromUpload("notes.TXT", []byte("plain text"))
	if err != nil {
		t.Fatalf("FromUpload: %v", err)
	}
	if out != "plain text" {
		t.Fatalf("out = %q", out)
	}
}

func TestFromUploadEmpty(t *testing.T) {
	_, err := FromUpload("notes.txt", nil)
	if err == nil {
		t.Fatal("expected error for empty upload")
	}
	if apperrors.From(err).HTTPStatus != http.StatusBadRequest {
		t.Fatalf("status = %d", apperrors.From(err).HTTPStatus)
	}
}

func TestFromUploadUnsupported(t *testing.T) {
	_, err := FromUpload("sheet.xlsx", []byte("data"))
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	apiErr := apperrors.From(err)
	if apiErr.Type != apperrors.TypeInvalidArgument {
		t.Fatalf("type = %q", apiErr.Type)
	}
	if !strings.Contains(apiErr.Message, ".docx") {
		t.Fatalf("message should list supported types, got %q", apiErr.Message)
	}
}

func TestFromUploadCorruptPDF(t *testing.T) {
	_, err := FromUpload("doc.pdf", []byte("not a pdf at all"))
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
	apiErr := apperrors.From(err)
	if apiErr.Type != apperrors.TypeExtraction {
		t.Fatalf("type = %q", apiErr.Type)
	}
	if apiErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", apiErr.HTTPStatus)
	}
}

func TestFromUploadCorruptDocx(t *testing.T) {
	_, err := FromUpload("doc.docx", []byte("not a zip archive"))
	if err == nil {
		t.Fatal("expected error for corrupt DOCX")
	}
	if apperrors.From(err).Type != apperrors.TypeExtraction {
		t.Fatalf("type = %q", apperrors.From(err).Type)
	}
}
