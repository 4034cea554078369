// Package jsonutil provides shared helpers for JSON bodies exchanged with the
// deployments API: contextual decode errors and loose field extraction.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// GetString safely extracts a string value from a decoded JSON object.
// Returns the value if it's a string, otherwise returns empty string.
func GetString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// ErrorField returns the top-level "error" string of a JSON object body.
// Some servers nest it as {"error": {"message": "..."}}; that form is
// accepted too. Anything else yields "".
func ErrorField(data []byte) string {
	var m map[string]any
	if json.Unmarshal(data, &m) != nil {
		return ""
	}
	if s := strings.TrimSpace(GetString(m, "error")); s != "" {
		return s
	}
	if nested, ok := m["error"].(map[string]any); ok {
		return strings.TrimSpace(GetString(nested, "message"))
	}
	return ""
}
