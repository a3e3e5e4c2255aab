package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON unmarshals model output into T. Code fences are stripped; when the
// remainder is not JSON the first well-formed object in the text is used.
func decodeJSON[T any](raw string) (*T, error) {
	clean := sanitizeJSON(raw)
	var out T
	if err := json.Unmarshal([]byte(clean), &out); err == nil {
		return &out, nil
	}
	obj, ok := firstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("decode JSON: no object in model output")
	}
	if err := json.Unmarshal(obj, &out); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return &out, nil
}

func sanitizeJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = trimmed[3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimPrefix(trimmed, "JSON")
		if idx := strings.Index(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return strings.TrimSpace(trimmed)
}

// firstJSONObject returns the first '{' position in text at which a complete
// JSON object can be decoded.
func firstJSONObject(text string) ([]byte, bool) {
	data := []byte(text)
	for i := bytes.IndexByte(data, '{'); i >= 0; {
		var obj json.RawMessage
		if err := json.NewDecoder(bytes.NewReader(data[i:])).Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return obj, true
		}
		next := bytes.IndexByte(data[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, false
}
