package catalogschema

import "strings"

// Family names the well-known roots of the class hierarchy.
type Family struct {
	// Root is the member class every other class descends from.
	Root string `yaml:"root" json:"root"`
	// Item is the abstract item family root.
	Item string `yaml:"item" json:"item"`
	// Group is the abstract group family root.
	Group string `yaml:"group" json:"group"`
	// Marker must appear on an inheritance line for it to count.
	Marker string `yaml:"marker" json:"marker"`
}

// DefaultFamily is the TerriaJS catalog family.
var DefaultFamily = Family{
	Root:   "CatalogMember",
	Item:   "CatalogItem",
	Group:  "CatalogGroup",
	Marker: "Catalog",
}

// WithDefaults fills empty names from DefaultFamily.
func (f Family) WithDefaults() Family {
	if f.Root == "" {
		f.Root = DefaultFamily.Root
	}
	if f.Item == "" {
		f.Item = DefaultFamily.Item
	}
	if f.Group == "" {
		f.Group = DefaultFamily.Group
	}
	if f.Marker == "" {
		f.Marker = DefaultFamily.Marker
	}
	return f
}

// IsFamilyRoot reports whether name is one of the three well-known roots.
func (f Family) IsFamilyRoot(name string) bool {
	return name == f.Root || name == f.Item || name == f.Group
}

// InItemFamily reports whether name ends with the item suffix and is not the
// item root itself.
func (f Family) InItemFamily(name string) bool {
	return len(name) > len(f.Item) && strings.HasSuffix(name, f.Item)
}

// InGroupFamily reports whether name ends with the group suffix and is not the
// group root itself.
func (f Family) InGroupFamily(name string) bool {
	return len(name) > len(f.Group) && strings.HasSuffix(name, f.Group)
}

// SchemaFile is the document name of a class schema.
func SchemaFile(class string) string { return class + ".json" }

// ShellFile is the document name of a concrete class shell.
func ShellFile(class string) string { return class + "_type.json" }

// CollectionFile is the document name of the collection schema.
const CollectionFile = "items.json"
