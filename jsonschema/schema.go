package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Schema is the JSON Schema representation emitted for catalog classes.
// It covers the keywords the class, shell and collection documents use plus the
// json-editor extensions (options, headerTemplate, defaultProperties).
type Schema struct {
	// Reference
	Ref string `json:"$ref,omitempty"`

	// Annotations
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type    Types    `json:"type,omitempty"`
	Format  string   `json:"format,omitempty"`
	Enum    []string `json:"enum,omitempty"`
	Default any      `json:"default,omitempty"`

	// Editor hints
	Options           *Options `json:"options,omitempty"`
	HeaderTemplate    string   `json:"headerTemplate,omitempty"`
	DefaultProperties []string `json:"defaultProperties,omitempty"`

	// Object
	Properties           *Properties `json:"properties,omitempty"`
	Required             []string    `json:"required,omitempty"`
	AdditionalProperties any         `json:"additionalProperties,omitempty"` // bool or *Schema

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Composition
	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`
}

// Options are json-editor display options.
type Options struct {
	Hidden              bool `json:"hidden,omitempty"`
	Collapsed           bool `json:"collapsed,omitempty"`
	DisableArrayReorder bool `json:"disable_array_reorder,omitempty"`
	ExpandHeight        bool `json:"expand_height,omitempty"`
}

// Ref returns a schema holding only a $ref.
func Ref(target string) *Schema { return &Schema{Ref: target} }

// Int returns a pointer to n, for MinItems/MaxItems.
func Int(n int) *int { return &n }

// Parse decodes a schema document.
func Parse(b []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalJSON writes keywords in a fixed order so emitted documents diff cleanly.
func (s Schema) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	w.str("$ref", s.Ref)
	w.str("title", s.Title)
	w.str("description", s.Description)
	switch len(s.Type) {
	case 0:
	case 1:
		w.value("type", s.Type[0])
	default:
		w.value("type", []string(s.Type))
	}
	w.str("format", s.Format)
	if len(s.Enum) > 0 {
		w.value("enum", s.Enum)
	}
	if s.Default != nil {
		w.value("default", s.Default)
	}
	if s.Options != nil {
		w.value("options", s.Options)
	}
	w.str("headerTemplate", s.HeaderTemplate)
	if len(s.DefaultProperties) > 0 {
		w.value("defaultProperties", s.DefaultProperties)
	}
	if s.Properties != nil {
		w.value("properties", s.Properties)
	}
	if len(s.Required) > 0 {
		w.value("required", s.Required)
	}
	if s.AdditionalProperties != nil {
		w.value("additionalProperties", s.AdditionalProperties)
	}
	if s.Items != nil {
		w.value("items", s.Items)
	}
	if s.MinItems != nil {
		w.value("minItems", *s.MinItems)
	}
	if s.MaxItems != nil {
		w.value("maxItems", *s.MaxItems)
	}
	if len(s.AllOf) > 0 {
		w.value("allOf", s.AllOf)
	}
	if len(s.OneOf) > 0 {
		w.value("oneOf", s.OneOf)
	}
	if s.Not != nil {
		w.value("not", s.Not)
	}
	return w.bytes()
}

// rawSchema mirrors Schema for decoding; keywords with more than one JSON
// shape are kept raw.
type rawSchema struct {
	Ref                  string          `json:"$ref"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Type                 json.RawMessage `json:"type"`
	Format               string          `json:"format"`
	Enum                 []string        `json:"enum"`
	Default              any             `json:"default"`
	Options              *Options        `json:"options"`
	HeaderTemplate       string          `json:"headerTemplate"`
	DefaultProperties    []string        `json:"defaultProperties"`
	Properties           *Properties     `json:"properties"`
	Required             []string        `json:"required"`
	AdditionalProperties json.RawMessage `json:"additionalProperties"`
	Items                *Schema         `json:"items"`
	MinItems             *int            `json:"minItems"`
	MaxItems             *int            `json:"maxItems"`
	AllOf                []*Schema       `json:"allOf"`
	OneOf                []*Schema       `json:"oneOf"`
	Not                  *Schema         `json:"not"`
}

// UnmarshalJSON accepts "type" as a string or a list and
// "additionalProperties" as a bool or a schema.
func (s *Schema) UnmarshalJSON(b []byte) error {
	var r rawSchema
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*s = Schema{
		Ref:               r.Ref,
		Title:             r.Title,
		Description:       r.Description,
		Format:            r.Format,
		Enum:              r.Enum,
		Default:           r.Default,
		Options:           r.Options,
		HeaderTemplate:    r.HeaderTemplate,
		DefaultProperties: r.DefaultProperties,
		Properties:        r.Properties,
		Required:          r.Required,
		Items:             r.Items,
		MinItems:          r.MinItems,
		MaxItems:          r.MaxItems,
		AllOf:             r.AllOf,
		OneOf:             r.OneOf,
		Not:               r.Not,
	}
	if len(r.Type) > 0 {
		if err := s.Type.UnmarshalJSON(r.Type); err != nil {
			return err
		}
	}
	if ap := bytes.TrimSpace(r.AdditionalProperties); len(ap) > 0 && !bytes.Equal(ap, []byte("null")) {
		if ap[0] == '{' {
			sub := &Schema{}
			if err := json.Unmarshal(ap, sub); err != nil {
				return err
			}
			s.AdditionalProperties = sub
		} else {
			var flag bool
			if err := json.Unmarshal(ap, &flag); err != nil {
				return err
			}
			s.AdditionalProperties = flag
		}
	}
	return nil
}

// objectWriter emits a JSON object key by key, remembering the first error.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) str(key, v string) {
	if v != "" {
		w.value(key, v)
	}
}

func (w *objectWriter) value(key string, v any) {
	if w.err != nil {
		return
	}
	kb, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	vb, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(kb)
	w.buf.WriteByte(':')
	w.buf.Write(vb)
	w.n++
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
