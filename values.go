package xlprint

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Configurations arrive as generic JSON or YAML trees, so numbers may be
// float64 (JSON) or int (YAML). These helpers read such values leniently:
// anything of the wrong shape reads as "absent".

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toFloatLoose also accepts numeric strings, which is what a "{{ }}"
// substitution produces for a numeric variable.
func toFloatLoose(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return toFloat(v)
}

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// firstPresent returns the first key of m whose value is not nil.
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// normalizeCellValue maps a configured cell value onto the scalar kinds a
// worksheet stores: nil, string, float64 or bool. Structured values are
// kept as their JSON text.
func normalizeCellValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return t
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return stringify(v)
}

// isEmptyValue reports whether a cell value counts as blank.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// cellText renders a cell value the way it appears in the sheet.
func cellText(v any) string {
	return stringify(v)
}

// sortedKeys returns the keys of m in ascending order, for deterministic output.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
