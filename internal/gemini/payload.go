package gemini

import (
	"encoding/base64"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// textPayload builds a single-turn generateContent request body.
func textPayload(promptText string) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "contents.0.parts.0.text", promptText)
}

// imagePayload builds a request carrying the prompt plus one inline image.
func imagePayload(promptText string, image []byte, mimeType string) ([]byte, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	payload, err := textPayload(promptText)
	if err != nil {
		return nil, err
	}
	if payload, err = sjson.SetBytes(payload, "contents.0.parts.1.inlineData.mimeType", mimeType); err != nil {
		return nil, err
	}
	return sjson.SetBytes(payload, "contents.0.parts.1.inlineData.data", base64.StdEncoding.EncodeToString(image))
}

// extractText concatenates the text parts of the first candidate. A blocked
// prompt is surfaced as an upstream error; an empty reply is returned as "".
func extractText(body []byte) (string, error) {
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", blockedError(reason, body)
	}
	var sb strings.Builder
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		if t := part.Get("text"); t.Exists() {
			sb.WriteString(t.String())
		}
	}
	return sb.String(), nil
}
