package xlprint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFormat is the encoding of a configuration source.
type ConfigFormat string

const (
	FormatJSON ConfigFormat = "json"
	FormatYAML ConfigFormat = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (ConfigFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// LoadConfig reads a JSON or YAML configuration file.
func LoadConfig(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f, format)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a configuration from r. The root must be an object.
func ParseConfig(r io.Reader, format ConfigFormat) (map[string]any, error) {
	var root any
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&root); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&root); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		root = normalizeYAML(root)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T, expected an object", ErrInvalidConfig, root)
	}
	return m, nil
}

// normalizeYAML rewrites mappings with non-string keys into string-keyed
// records so YAML trees look like JSON trees.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeYAML(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	}
	return v
}
