package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// listKeys are the field names the backend has wrapped list payloads in
// over its history. Checked in order.
var listKeys = []string{"results", "data", "items"}

// decodeList maps any of the backend's historical list envelopes to one
// canonical slice: a bare JSON array, an object wrapping the array under a
// known key, or a JSON null (empty list). Downstream code never sniffs
// response shapes itself.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		for _, key := range listKeys {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			inner := bytes.TrimSpace(raw)
			if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
				return []T{}, nil
			}
			if inner[0] != '[' {
				continue
			}
			var items []T
			if err := json.Unmarshal(inner, &items); err != nil {
				return nil, fmt.Errorf("decode %q list: %w", key, err)
			}
			return items, nil
		}
		return []T{}, fmt.Errorf("list envelope has no recognized list field")
	}

	return nil, fmt.Errorf("unexpected list payload starting with %q", trimmed[0])
}
