package jsdoc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/jsdoc"
)

const parsed = `[
  {"kind": "class", "name": "CsvCatalogItem", "description": "CSV data.",
   "customTags": [{"tag": "editortitle", "value": "CSV"}], "meta": {"lineno": 12}},
  {"kind": "member", "name": "data", "memberof": "CsvCatalogItem", "description": "Gets or sets the data.",
   "type": {"names": ["String", "Number[]"]}, "meta": {"lineno": 20},
   "customTags": [{"tag": "editorformat", "value": "textarea"}]},
  {"kind": "member", "name": "nowhere", "memberof": "CsvCatalogItem"},
  {"name": "nokind"},
  {"kind": "function", "name": "load", "memberof": "CsvCatalogItem"}
]`

func TestDecode(t *testing.T) {
	recs, d, err := jsdoc.Decode([]byte(parsed))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, jsdoc.KindClass, recs[0].Kind)
	assert.Equal(t, "CSV", recs[0].Tags["editortitle"])

	assert.Equal(t, "data", recs[1].Name)
	assert.Equal(t, 20, recs[1].Line)
	assert.Equal(t, []string{"String", "Array.<Number>"}, recs[1].TypeNames)
	assert.Equal(t, "textarea", recs[1].Tags["editorformat"])

	assert.Equal(t, jsdoc.KindFunction, recs[2].Kind)

	require.True(t, d.HasWarnings())
	assert.Len(t, d.Warnings(), 2)
}

func TestDecode_RejectsNonArray(t *testing.T) {
	_, _, err := jsdoc.Decode([]byte(`{"kind": "class"}`))
	assert.ErrorIs(t, err, catalogschema.ErrInvalidDocumentation)

	_, _, err = jsdoc.Decode([]byte(`[{"kind": 3}]`))
	assert.ErrorIs(t, err, catalogschema.ErrInvalidDocumentation)
}

func TestDirSource_FallsBackToNative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CsvCatalogItem.json"), []byte(parsed), 0o644))
	src := jsdoc.Dir{Path: dir, Fallback: jsdoc.Native{}}

	recs, _, err := src.Records(context.Background(), "CsvCatalogItem", "CsvCatalogItem.js", nil)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	native := []byte("/**\n * Other.\n * @constructor\n */\nvar OtherCatalogItem = function() {};\n")
	recs, _, err = src.Records(context.Background(), "OtherCatalogItem", "OtherCatalogItem.js", native)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "OtherCatalogItem", recs[0].Name)

	_, _, err = jsdoc.Dir{Path: dir}.Records(context.Background(), "Missing", "Missing.js", nil)
	assert.Error(t, err)
}
