// Package union builds the collection schema over every concrete class.
package union

import (
	"sort"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/jsonschema"
)

// Collection document annotations.
const (
	Title          = "Items"
	Description    = "List of items or groups"
	ItemTitle      = "item"
	HeaderTemplate = "{{ self.name }}"
)

// Required lists the keys every collection entry must carry.
var Required = []string{"name", "type"}

// Build returns the collection schema for the concrete classes of models.
// Abstract classes are ignored. Group classes come first, then the rest, each
// ordered by name.
func Build(models []catalogschema.ClassModel, mode catalogschema.Mode, f catalogschema.Family) *jsonschema.Schema {
	f = f.WithDefaults()
	concrete := Concrete(models, f)
	root := jsonschema.Ref(catalogschema.SchemaFile(f.Root))

	item := &jsonschema.Schema{
		Title:          ItemTitle,
		Type:           jsonschema.Type(catalogschema.TypeObject),
		HeaderTemplate: HeaderTemplate,
		Required:       append([]string(nil), Required...),
		AllOf:          []*jsonschema.Schema{root},
	}
	switch mode {
	case catalogschema.ModeEditor:
		for _, m := range concrete {
			item.OneOf = append(item.OneOf, jsonschema.Ref(catalogschema.ShellFile(m.Name)))
		}
	default:
		for _, m := range concrete {
			item.AllOf = append(item.AllOf, GuardedPair(m))
		}
	}
	return &jsonschema.Schema{
		Title:       Title,
		Description: Description,
		Type:        jsonschema.Type(catalogschema.TypeArray),
		Format:      catalogschema.FormatTabs,
		Items:       item,
	}
}

// GuardedPair holds when an entry's type is not m's type id, or when it is
// and the entry satisfies m's shell. Exactly one branch matches, so a
// validator reports the failing branch of the offending type only.
func GuardedPair(m catalogschema.ClassModel) *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Not: typeIs(m.TypeID)},
			{AllOf: []*jsonschema.Schema{typeIs(m.TypeID), jsonschema.Ref(catalogschema.ShellFile(m.Name))}},
		},
	}
}

func typeIs(id string) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("type", &jsonschema.Schema{Enum: []string{id}})
	return &jsonschema.Schema{Properties: props}
}

// Concrete returns the classes with a type id in collection order.
func Concrete(models []catalogschema.ClassModel, f catalogschema.Family) []catalogschema.ClassModel {
	f = f.WithDefaults()
	var out []catalogschema.ClassModel
	for _, m := range models {
		if m.Concrete() {
			out = append(out, m)
		}
	}
	isGroup := func(m catalogschema.ClassModel) bool {
		return m.Name == f.Group || f.InGroupFamily(m.Name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := isGroup(out[i]), isGroup(out[j])
		if gi != gj {
			return gi
		}
		return out[i].Name < out[j].Name
	})
	return out
}
