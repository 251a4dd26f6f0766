package llm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractJSON trims markdown code fences and any leading/trailing prose
// around the first JSON object in a model response. Models are asked for
// bare JSON but routinely wrap it anyway.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

// CoerceInt converts a loosely-typed JSON value to a non-negative integer,
// returning def when the value is absent or unparseable. Model responses
// deliver numbers as float64, quoted strings, or garbage.
func CoerceInt(v any, def int) int {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || val < 0 {
			return def
		}
		return int(math.Round(val))
	case int:
		if val < 0 {
			return def
		}
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return def
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || f < 0 {
			return def
		}
		return int(math.Round(f))
	default:
		return def
	}
}

// CoerceString converts a loosely-typed JSON value to a trimmed string,
// returning def when absent.
func CoerceString(v any, def string) string {
	switch val := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
		return def
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return def
	}
}

// CoerceStringList converts a loosely-typed JSON array to a string slice,
// dropping non-string and empty elements. Returns an empty slice, never nil.
func CoerceStringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
