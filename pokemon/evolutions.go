package pokemon

import (
	"encoding/json"
	"fmt"
	"strings"
)

// legacySeparator joined evolutions in rows written before the JSON encoding.
const legacySeparator = ","

// EncodeEvolutions renders the evolutions column value: a JSON array of strings.
// A nil or empty list encodes as "[]".
func EncodeEvolutions(evolutions []string) (string, error) {
	if len(evolutions) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(evolutions)
	if err != nil {
		return "", fmt.Errorf("encode evolutions: %w", err)
	}
	return string(data), nil
}

// DecodeEvolutions parses an evolutions column value back into an ordered list.
//
// Accepted forms:
//   - JSON array text, as produced by EncodeEvolutions
//   - the empty string (NULL columns scan as ""), which yields an empty list
//   - legacy comma-joined text, split on "," with surrounding space trimmed
//     and empty labels dropped
func DecodeEvolutions(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var out []string
		if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
			return nil, fmt.Errorf("decode evolutions %q: %w", raw, err)
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}

	parts := strings.Split(trimmed, legacySeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if label := strings.TrimSpace(part); label != "" {
			out = append(out, label)
		}
	}
	return out, nil
}
