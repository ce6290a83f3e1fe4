package catalogschema

// ClassModel is the structural and documentary summary of one source class.
// It is built once per run and treated as immutable afterwards.
type ClassModel struct {
	// Name is the class name, equal to the base name of its file.
	Name string
	// File is the path the class was read from.
	File string
	// ParentName is the immediate ancestor; empty only for the root class.
	ParentName string
	// TypeID is the discriminator of concrete classes; empty for abstract ones.
	TypeID string
	// TypeName is the human-facing label used as a title fallback.
	TypeName string
	// OwnProperties are the documented members declared before InheritsAtLine,
	// in declaration order.
	OwnProperties []PropertyAnnotation
	// InheritsAtLine is the 1-based line of the inheritance (or root) marker.
	InheritsAtLine int
	// Class holds class-level documentation. Nil when the documentation set
	// has no class record.
	Class *ClassAnnotation
}

// IsRoot reports whether the class has no parent.
func (c ClassModel) IsRoot() bool { return c.ParentName == "" }

// Concrete reports whether the class is directly instantiable.
func (c ClassModel) Concrete() bool { return c.TypeID != "" }

// ClassAnnotation carries the class-level documentation overrides.
type ClassAnnotation struct {
	// Name is the name found on the class record itself.
	Name string
	// Title is the editortitle tag, if any.
	Title string
	// Description is editordescription, falling back to the record description.
	Description string
}

// PropertyAnnotation is one documented member of a class.
type PropertyAnnotation struct {
	Name string
	// Line is the 1-based declaration line.
	Line int
	// DeclaredTypes holds raw JSDoc type names, possibly replaced by an
	// editortype override.
	DeclaredTypes []string
	// Tags maps custom tag names to their values (last occurrence wins).
	Tags           map[string]string
	RawDescription string
}

// Tag returns the value of a custom tag.
func (p PropertyAnnotation) Tag(name string) (string, bool) {
	v, ok := p.Tags[name]
	return v, ok
}

// Overridden reports whether an editortype tag replaced the declared types.
func (p PropertyAnnotation) Overridden() bool {
	_, ok := p.Tags[TagEditorType]
	return ok
}

// Schema primitive types a property can resolve to.
const (
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Editor formats assigned by default.
const (
	FormatTabs     = "tabs"
	FormatCheckbox = "checkbox"
	FormatTextarea = "textarea"
	FormatTable    = "table"
)

// PropertyModel is the resolved, schema-facing view of a PropertyAnnotation.
type PropertyModel struct {
	Name string
	// ResolvedType is one of the Type* constants, or empty when unsupported.
	ResolvedType string
	Title        string
	Description  string
	Format       string
	// ExpandHeight asks the editor to grow a textarea vertically.
	ExpandHeight bool
	// Items is set only when ResolvedType is TypeArray.
	Items *ArrayItemSpec
}

// ArrayItemSpec describes the items of an array property.
type ArrayItemSpec struct {
	Type        string
	Enum        []string
	Title       string
	Description string
}
