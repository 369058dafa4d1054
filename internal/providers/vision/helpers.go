package vision

import (
	"encoding/json"
	"errors"
	"strings"
)

func parseVisionPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// extractJSONFragment pulls the JSON object or array out of a model reply
// that may wrap it in prose or a code fence.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// stripDataURLPrefix accepts either a bare base64 string or a full data URL
// and returns the base64 body plus the MIME type when one was declared.
func stripDataURLPrefix(image string) (data, mimeType string) {
	trimmed := strings.TrimSpace(image)
	if !strings.HasPrefix(trimmed, "data:") {
		return trimmed, "image/jpeg"
	}
	rest := strings.TrimPrefix(trimmed, "data:")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return trimmed, "image/jpeg"
	}
	return rest[semi+len(";base64,"):], coalesce(rest[:semi], "image/jpeg")
}
