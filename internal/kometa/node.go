// Package kometa implements the bidirectional mapping between wizard
// profiles and Kometa's YAML configuration format: a deterministic generator
// (profile -> YAML) and a tolerant importer (YAML -> profile).
package kometa

import "github.com/spf13/cast"

// The importer walks the decoded YAML as a generic tree and pulls scalars
// through these accessors. Coercion is tolerant: a value that cannot be
// converted falls back to the supplied default, never an error.

func getMap(node map[string]any, key string) (map[string]any, bool) {
	v, ok := node[key]
	if !ok || v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	return nil, false
}

func getSlice(node map[string]any, key string) []any {
	v, ok := node[key]
	if !ok {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func getString(node map[string]any, key, def string) string {
	v, ok := node[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

func getInt(node map[string]any, key string, def int) int {
	v, ok := node[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(node map[string]any, key string, def bool) bool {
	v, ok := node[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}
