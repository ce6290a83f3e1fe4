// Package resolve maps property annotations to resolved property models and
// schema fragments.
package resolve

import (
	"fmt"
	"strings"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/docmodel"
	"github.com/reoring/catalogschema/jsonschema"
)

// Declared types with special handling.
const (
	LegendURLType            = "LegendUrl"
	GetFeatureInfoFormatType = "GetFeatureInfoFormat"
)

// FeatureInfoFormats are the item values of an Array.<GetFeatureInfoFormat>.
var FeatureInfoFormats = []string{"json", "xml", "html", "text"}

type itemType struct {
	typ  string
	enum []string
}

var arrayItems = map[string]itemType{
	"Array.<String>":               {typ: catalogschema.TypeString},
	"Array.<Number>":               {typ: catalogschema.TypeNumber},
	"Array.<Object>":               {typ: catalogschema.TypeObject},
	"Array.<GetFeatureInfoFormat>": {typ: catalogschema.TypeString, enum: FeatureInfoFormats},
	"Array":                        {typ: catalogschema.TypeString},
}

// BuiltinSpecials returns the schema fragments merged over the properties
// named rectangle, blacklist and whitelist.
func BuiltinSpecials() map[string]*jsonschema.Schema {
	checkboxMap := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			AdditionalProperties: &jsonschema.Schema{
				Type:   jsonschema.Type(catalogschema.TypeBoolean),
				Format: catalogschema.FormatCheckbox,
			},
		}
	}
	return map[string]*jsonschema.Schema{
		"rectangle": {
			Type:   jsonschema.Type(catalogschema.TypeArray),
			Format: catalogschema.FormatTable,
			Items: &jsonschema.Schema{
				Type: jsonschema.Type(catalogschema.TypeNumber, catalogschema.TypeString),
			},
			Options:  &jsonschema.Options{Collapsed: true, DisableArrayReorder: true},
			MinItems: jsonschema.Int(2),
			MaxItems: jsonschema.Int(4),
		},
		"blacklist": checkboxMap(),
		"whitelist": checkboxMap(),
	}
}

// Resolver resolves property annotations. It is safe for concurrent use once
// built.
type Resolver struct {
	specials map[string]*jsonschema.Schema
}

// New returns a Resolver using the built-in special fragments with extra
// merged over them; an extra fragment replaces the built-in of the same name.
func New(extra map[string]*jsonschema.Schema) *Resolver {
	sp := BuiltinSpecials()
	for name, frag := range extra {
		sp[name] = frag.Clone()
	}
	return &Resolver{specials: sp}
}

// Resolve derives the PropertyModel of p.
func (r *Resolver) Resolve(p catalogschema.PropertyAnnotation) (catalogschema.PropertyModel, error) {
	var surviving []string
	for _, t := range p.DeclaredTypes {
		if docmodel.Representable(t) {
			surviving = append(surviving, t)
		}
	}
	pm := catalogschema.PropertyModel{Name: p.Name}
	if len(surviving) > 0 {
		pm.ResolvedType = schemaType(surviving[0])
	}

	if v, ok := p.Tag(catalogschema.TagEditorTitle); ok && v != "" {
		pm.Title = v
	} else {
		pm.Title = Titleify(p.Name)
	}
	if v, ok := p.Tag(catalogschema.TagEditorDescription); ok && v != "" {
		pm.Description = ReplaceLinks(v)
	} else {
		pm.Description = Describe(p.RawDescription)
	}

	switch {
	case pm.ResolvedType == catalogschema.TypeArray:
		pm.Format = catalogschema.FormatTabs
	case pm.ResolvedType == catalogschema.TypeBoolean:
		pm.Format = catalogschema.FormatCheckbox
	case pm.ResolvedType == catalogschema.TypeString && p.Name == "description":
		pm.Format = catalogschema.FormatTextarea
	}
	if v, ok := p.Tag(catalogschema.TagEditorFormat); ok && v != "" {
		pm.Format = v
	}
	pm.ExpandHeight = pm.Format == catalogschema.FormatTextarea

	if pm.ResolvedType == catalogschema.TypeArray {
		items, err := arrayItemSpec(p, surviving)
		if err != nil {
			return catalogschema.PropertyModel{}, err
		}
		pm.Items = items
	}
	return pm, nil
}

func schemaType(t string) string {
	switch {
	case strings.Contains(strings.ToLower(t), "array"):
		return catalogschema.TypeArray
	case strings.EqualFold(t, LegendURLType):
		return catalogschema.TypeString
	}
	return strings.ToLower(t)
}

func arrayItemSpec(p catalogschema.PropertyAnnotation, surviving []string) (*catalogschema.ArrayItemSpec, error) {
	spec := &catalogschema.ArrayItemSpec{}
	if v, ok := p.Tag(catalogschema.TagEditorItemsType); ok && v != "" {
		spec.Type = strings.ToLower(strings.TrimSpace(v))
	} else {
		found := false
		for _, t := range surviving {
			if it, ok := arrayItems[t]; ok {
				spec.Type = it.typ
				spec.Enum = append([]string(nil), it.enum...)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: property %q declares %s", catalogschema.ErrUnsupportedArrayType, p.Name, strings.Join(p.DeclaredTypes, "|"))
		}
	}
	spec.Title, _ = p.Tag(catalogschema.TagEditorItemsTitle)
	if v, ok := p.Tag(catalogschema.TagEditorItemsDescription); ok {
		spec.Description = ReplaceLinks(v)
	}
	return spec, nil
}

// Fragment renders pm as a property schema, with any special fragment for its
// name merged over the derived keywords.
func (r *Resolver) Fragment(pm catalogschema.PropertyModel) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Title:       pm.Title,
		Description: pm.Description,
		Format:      pm.Format,
	}
	if pm.ResolvedType != "" {
		s.Type = jsonschema.Type(pm.ResolvedType)
	}
	if pm.ExpandHeight {
		s.Options = &jsonschema.Options{ExpandHeight: true}
	}
	if it := pm.Items; it != nil {
		s.Items = &jsonschema.Schema{
			Title:       it.Title,
			Description: it.Description,
			Enum:        append([]string(nil), it.Enum...),
		}
		if it.Type != "" {
			s.Items.Type = jsonschema.Type(it.Type)
		}
	}
	if sp, ok := r.specials[pm.Name]; ok {
		s.Overlay(sp)
	}
	return s
}
