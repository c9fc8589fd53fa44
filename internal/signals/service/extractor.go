package service

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject parses the text between the first '{' and the last '}' of
// a model reply. It returns nil when there is no such span, when the span is
// not a JSON object, or when the object is empty.
func ExtractJSONObject(text string) map[string]interface{} {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil
	}
	if len(obj) == 0 {
		return nil
	}
	return obj
}
