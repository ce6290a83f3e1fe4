package jsonschema

// Clone returns a deep copy of s. Default values are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Type = cloneStrings(s.Type)
	c.Enum = cloneStrings(s.Enum)
	c.DefaultProperties = cloneStrings(s.DefaultProperties)
	c.Required = cloneStrings(s.Required)
	if s.Options != nil {
		o := *s.Options
		c.Options = &o
	}
	c.Properties = s.Properties.Clone()
	if sub, ok := s.AdditionalProperties.(*Schema); ok {
		c.AdditionalProperties = sub.Clone()
	}
	c.Items = s.Items.Clone()
	if s.MinItems != nil {
		c.MinItems = Int(*s.MinItems)
	}
	if s.MaxItems != nil {
		c.MaxItems = Int(*s.MaxItems)
	}
	c.AllOf = cloneList(s.AllOf)
	c.OneOf = cloneList(s.OneOf)
	c.Not = s.Not.Clone()
	return &c
}

// Overlay copies every keyword set on src into s, replacing what s had for
// that keyword. Keywords src leaves unset are kept.
func (s *Schema) Overlay(src *Schema) {
	if src == nil {
		return
	}
	src = src.Clone()
	if src.Ref != "" {
		s.Ref = src.Ref
	}
	if src.Title != "" {
		s.Title = src.Title
	}
	if src.Description != "" {
		s.Description = src.Description
	}
	if len(src.Type) > 0 {
		s.Type = src.Type
	}
	if src.Format != "" {
		s.Format = src.Format
	}
	if len(src.Enum) > 0 {
		s.Enum = src.Enum
	}
	if src.Default != nil {
		s.Default = src.Default
	}
	if src.Options != nil {
		s.Options = src.Options
	}
	if src.HeaderTemplate != "" {
		s.HeaderTemplate = src.HeaderTemplate
	}
	if len(src.DefaultProperties) > 0 {
		s.DefaultProperties = src.DefaultProperties
	}
	if src.Properties != nil {
		s.Properties = src.Properties
	}
	if len(src.Required) > 0 {
		s.Required = src.Required
	}
	if src.AdditionalProperties != nil {
		s.AdditionalProperties = src.AdditionalProperties
	}
	if src.Items != nil {
		s.Items = src.Items
	}
	if src.MinItems != nil {
		s.MinItems = src.MinItems
	}
	if src.MaxItems != nil {
		s.MaxItems = src.MaxItems
	}
	if len(src.AllOf) > 0 {
		s.AllOf = src.AllOf
	}
	if len(src.OneOf) > 0 {
		s.OneOf = src.OneOf
	}
	if src.Not != nil {
		s.Not = src.Not
	}
}

func cloneStrings[T ~[]string](in T) T {
	if in == nil {
		return nil
	}
	return append(T(nil), in...)
}

func cloneList(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
