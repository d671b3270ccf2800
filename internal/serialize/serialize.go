// internal/serialize/serialize.go
package serialize

import (
	"encoding/json"
	"fmt"
)

// Flexible campaign fields (source urls, custom columns, validator reports)
// are stored as JSON text blobs. A decode failure means the row is corrupted
// and the enclosing operation must abort, so errors are never swallowed here.

func StringList(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to serialize string list: %w", err)
	}
	return string(b), nil
}

func ParseStringList(blob string) ([]string, error) {
	if blob == "" {
		return []string{}, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(blob), &urls); err != nil {
		return nil, fmt.Errorf("failed to parse string list: %w", err)
	}
	return urls, nil
}

func Map(columns map[string]any) (string, error) {
	if columns == nil {
		columns = map[string]any{}
	}
	b, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("failed to serialize map: %w", err)
	}
	return string(b), nil
}

func ParseMap(blob string) (map[string]any, error) {
	if blob == "" {
		return map[string]any{}, nil
	}
	var columns map[string]any
	if err := json.Unmarshal([]byte(blob), &columns); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}
	return columns, nil
}

// Value serializes an arbitrary JSON-shaped value, used for validator reports.
func Value(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize value: %w", err)
	}
	return string(b), nil
}
