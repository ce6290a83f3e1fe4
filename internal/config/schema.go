package config

import (
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

// JSONSchema returns the JSON Schema of the YAML configuration file.
func JSONSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Config{})
	s.Title = "catalogschema configuration"
	return json.MarshalIndent(s, "", "  ")
}
