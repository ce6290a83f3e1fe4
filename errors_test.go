package catalogschema_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogschema "github.com/reoring/catalogschema"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("%w: in Foo.js", catalogschema.ErrStructuralScan)
	assert.Equal(t, catalogschema.CodeStructuralScan, catalogschema.CodeOf(wrapped, catalogschema.CodeReadFailure))
	assert.Equal(t, catalogschema.CodeReadFailure, catalogschema.CodeOf(errors.New("eof"), catalogschema.CodeReadFailure))
}

func TestFailure_Error(t *testing.T) {
	f := catalogschema.NewFailure("WebMapServiceCatalogItem", "lib/Models/WebMapServiceCatalogItem.js",
		fmt.Errorf("%w: property %q", catalogschema.ErrUnsupportedArrayType, "styles"), "")
	assert.Equal(t, catalogschema.CodeUnsupportedArrayType, f.Code)
	assert.Equal(t, "unsupported array item type", f.Message)
	assert.Equal(t,
		`WebMapServiceCatalogItem: unsupported_array_type (lib/Models/WebMapServiceCatalogItem.js): array property has no mappable item type: property "styles"`,
		f.Error())
	assert.ErrorIs(t, f, catalogschema.ErrUnsupportedArrayType)

	bare := catalogschema.Failure{Class: "X", Code: catalogschema.CodeWriteFailure, Message: "write failed"}
	assert.Equal(t, "X: write_failure: write failed", bare.Error())
}

func TestFailures(t *testing.T) {
	var fs catalogschema.Failures
	for _, c := range []string{"A", "B", "C", "D"} {
		fs = append(fs, catalogschema.NewFailure(c, "", catalogschema.ErrDuplicateTypeID, ""))
	}
	fs = append(fs, catalogschema.NewFailure("E", "", catalogschema.ErrHierarchyCycle, ""))

	assert.Equal(t, "duplicate_type_id in A; duplicate_type_id in B; duplicate_type_id in C; ... (total 5)", fs.Error())
	assert.Len(t, fs.ByCode(catalogschema.CodeDuplicateTypeID), 4)
	assert.Len(t, fs.ByCode(catalogschema.CodeHierarchyCycle), 1)

	err := fmt.Errorf("run: %w", fs)
	got, ok := catalogschema.AsFailures(err)
	require.True(t, ok)
	assert.Len(t, got, 5)
	assert.ErrorIs(t, err, catalogschema.ErrHierarchyCycle)
	assert.NotErrorIs(t, err, catalogschema.ErrStructuralScan)
	var f catalogschema.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "A", f.Class)

	_, ok = catalogschema.AsFailures(nil)
	assert.False(t, ok)
	_, ok = catalogschema.AsFailures(errors.New("plain"))
	assert.False(t, ok)
	assert.Empty(t, catalogschema.Failures(nil).Error())
}

func TestFamily(t *testing.T) {
	f := catalogschema.Family{Marker: "Catalog"}.WithDefaults()
	assert.Equal(t, catalogschema.DefaultFamily, f)

	assert.True(t, f.IsFamilyRoot("CatalogGroup"))
	assert.False(t, f.IsFamilyRoot("CsvCatalogItem"))
	assert.True(t, f.InItemFamily("CsvCatalogItem"))
	assert.False(t, f.InItemFamily("CatalogItem"))
	assert.True(t, f.InGroupFamily("CkanCatalogGroup"))
	assert.False(t, f.InGroupFamily("CatalogFunction"))

	assert.Equal(t, "CsvCatalogItem.json", catalogschema.SchemaFile("CsvCatalogItem"))
	assert.Equal(t, "CsvCatalogItem_type.json", catalogschema.ShellFile("CsvCatalogItem"))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]catalogschema.Mode{
		"":           catalogschema.ModeValidation,
		"validation": catalogschema.ModeValidation,
		"editor":     catalogschema.ModeEditor,
	} {
		got, err := catalogschema.ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := catalogschema.ParseMode("strict")
	assert.Error(t, err)
	assert.Equal(t, "editor", catalogschema.ModeEditor.String())
	assert.Equal(t, "validation", catalogschema.ModeValidation.String())
}

func TestClassModel(t *testing.T) {
	m := catalogschema.ClassModel{Name: "CatalogMember"}
	assert.True(t, m.IsRoot())
	assert.False(t, m.Concrete())

	p := catalogschema.PropertyAnnotation{Tags: map[string]string{catalogschema.TagEditorType: "Number[]"}}
	assert.True(t, p.Overridden())
	v, ok := p.Tag(catalogschema.TagEditorType)
	assert.True(t, ok)
	assert.Equal(t, "Number[]", v)
}
