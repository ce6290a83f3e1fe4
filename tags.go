package catalogschema

// Recognized custom JSDoc tags.
const (
	TagEditorTitle            = "editortitle"
	TagEditorDescription      = "editordescription"
	TagEditorType             = "editortype"
	TagEditorFormat           = "editorformat"
	TagEditorItemsType        = "editoritemstype"
	TagEditorItemsTitle       = "editoritemstitle"
	TagEditorItemsDescription = "editoritemsdescription"
)

// BookkeepingProperty is dropped from every class schema.
const BookkeepingProperty = "typeName"
