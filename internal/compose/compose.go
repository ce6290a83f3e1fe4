// Package compose builds the class schema and, for concrete classes, the
// shell schema that pins the type discriminator.
package compose

import (
	"fmt"
	"strings"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/resolve"
	"github.com/reoring/catalogschema/jsonschema"
)

// DefaultProperties is attached to every class schema as is.
var DefaultProperties = []string{"name", "type", "url"}

// Composer turns class models into schema documents.
type Composer struct {
	family   catalogschema.Family
	resolver *resolve.Resolver
}

// New returns a Composer for the given class family.
func New(f catalogschema.Family, r *resolve.Resolver) *Composer {
	if r == nil {
		r = resolve.New(nil)
	}
	return &Composer{family: f.WithDefaults(), resolver: r}
}

// Result holds the documents composed for one class.
type Result struct {
	Class *jsonschema.Schema
	// Shell is nil for abstract classes.
	Shell      *jsonschema.Schema
	Properties []catalogschema.PropertyModel
}

// Compose derives the documents of m. It fails when m has no class-level
// documentation or when a property cannot be resolved.
func (c *Composer) Compose(m catalogschema.ClassModel) (Result, error) {
	if m.Class == nil {
		return Result{}, fmt.Errorf("%w for %s", catalogschema.ErrMissingClassDeclaration, m.Name)
	}
	props := jsonschema.NewProperties()
	models := make([]catalogschema.PropertyModel, 0, len(m.OwnProperties))
	for _, p := range m.OwnProperties {
		pm, err := c.resolver.Resolve(p)
		if err != nil {
			return Result{}, err
		}
		models = append(models, pm)
		props.Set(pm.Name, c.resolver.Fragment(pm))
	}
	props.Delete(catalogschema.BookkeepingProperty)

	doc := &jsonschema.Schema{
		Type:              jsonschema.Type(catalogschema.TypeObject),
		DefaultProperties: append([]string(nil), DefaultProperties...),
		Properties:        props,
		AllOf:             c.Ancestors(m),
	}
	res := Result{Class: doc, Properties: models}
	if m.Concrete() {
		res.Shell = c.shell(m, doc)
	}
	return res, nil
}

// Ancestors returns the allOf references of a class: its family root (item
// or group), its parent unless the parent is a family root, then the member
// root. The root class has none.
func (c *Composer) Ancestors(m catalogschema.ClassModel) []*jsonschema.Schema {
	if m.IsRoot() {
		return nil
	}
	var refs []*jsonschema.Schema
	switch {
	case c.family.InItemFamily(m.Name):
		refs = append(refs, jsonschema.Ref(catalogschema.SchemaFile(c.family.Item)))
	case c.family.InGroupFamily(m.Name):
		refs = append(refs, jsonschema.Ref(catalogschema.SchemaFile(c.family.Group)))
	}
	if !c.family.IsFamilyRoot(m.ParentName) {
		refs = append(refs, jsonschema.Ref(catalogschema.SchemaFile(m.ParentName)))
	}
	return append(refs, jsonschema.Ref(catalogschema.SchemaFile(c.family.Root)))
}

func (c *Composer) shell(m catalogschema.ClassModel, doc *jsonschema.Schema) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("type", &jsonschema.Schema{
		Type:    jsonschema.Type(catalogschema.TypeString),
		Enum:    []string{m.TypeID},
		Options: &jsonschema.Options{Hidden: true},
	})
	if m.Name == c.family.Group {
		props.Set("items", jsonschema.Ref(catalogschema.CollectionFile))
	}
	allOf := make([]*jsonschema.Schema, 0, len(doc.AllOf)+1)
	for _, a := range doc.AllOf {
		allOf = append(allOf, a.Clone())
	}
	allOf = append(allOf, jsonschema.Ref(catalogschema.SchemaFile(m.Name)))

	return &jsonschema.Schema{
		Title:       c.ShellTitle(m),
		Description: resolve.ReplaceLinks(m.Class.Description),
		Type:        jsonschema.Type(catalogschema.TypeObject),
		Properties:  props,
		AllOf:       allOf,
	}
}

// ShellTitle prefers the editortitle tag, then typeName, then the class name
// cut at its family marker (WebMapServiceCatalogItem -> WebMapService).
func (c *Composer) ShellTitle(m catalogschema.ClassModel) string {
	if m.Class != nil && m.Class.Title != "" {
		return m.Class.Title
	}
	if m.TypeName != "" {
		return m.TypeName
	}
	return c.stripFamily(m.Name)
}

func (c *Composer) stripFamily(name string) string {
	marker := c.family.Marker
	for from := 0; from < len(name); {
		i := strings.Index(name[from:], marker)
		if i < 0 {
			break
		}
		i += from
		if !strings.HasPrefix(name[i:], c.family.Root) {
			return name[:i]
		}
		from = i + len(marker)
	}
	return name
}
