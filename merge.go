package xlprint

// MergeDeep overlays override onto base and returns a new map. Nested maps
// are merged key by key; every other value in override, slices included,
// replaces the base value wholesale. Neither input is modified.
//
// A nil or non-map base yields a shallow copy of override (when it is a map).
func MergeDeep(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		ov, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if bv, ok := out[k].(map[string]any); ok {
			out[k] = MergeDeep(bv, ov)
			continue
		}
		out[k] = MergeDeep(nil, ov)
	}
	return out
}

// asMap returns v as a map when it is a structured record.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// asSlice returns v as a slice when it is an ordered sequence.
func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}
