package config

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/reoring/catalogschema/jsonschema"
)

// SpecialFragments decodes the configured special_properties into schemas.
func (c *Config) SpecialFragments() (map[string]*jsonschema.Schema, error) {
	if len(c.SpecialProperties) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(c.SpecialProperties))
	for n := range c.SpecialProperties {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make(map[string]*jsonschema.Schema, len(names))
	for _, n := range names {
		raw, err := json.Marshal(yamlNormalizeValue(c.SpecialProperties[n]))
		if err != nil {
			return nil, fmt.Errorf("special_properties.%s: %w", n, err)
		}
		s, err := jsonschema.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("special_properties.%s: %w", n, err)
		}
		out[n] = s
	}
	return out, nil
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like maps recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
