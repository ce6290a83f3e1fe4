package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/generator"
	"github.com/reoring/catalogschema/internal/discover"
	"github.com/reoring/catalogschema/internal/jsdoc"
	"github.com/reoring/catalogschema/internal/storage"
	"github.com/reoring/catalogschema/internal/validate"
	"github.com/reoring/catalogschema/jsonschema"
)

// models copies testdata/models into a temporary directory, adds extra
// files, and lists the class files the default filters select.
func models(t *testing.T, extra map[string]string) (string, []discover.File) {
	t.Helper()
	dir := t.TempDir()
	ents, err := os.ReadDir(filepath.Join("testdata", "models"))
	require.NoError(t, err)
	for _, e := range ents {
		b, err := os.ReadFile(filepath.Join("testdata", "models", e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), b, 0o644))
	}
	for name, src := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	files, err := discover.Files(discover.Options{Dir: dir, Exclude: discover.DefaultExclude})
	require.NoError(t, err)
	return dir, files
}

func run(t *testing.T, opts generator.Options, extra map[string]string) (*storage.Memory, *generator.Report, error) {
	t.Helper()
	_, files := models(t, extra)
	mem := storage.NewMemory()
	rep, err := generator.New(opts, mem, nil, nil).Run(context.Background(), files)
	require.NotNil(t, rep)
	return mem, rep, err
}

func doc(t *testing.T, mem *storage.Memory, name string) *jsonschema.Schema {
	t.Helper()
	b, ok := mem.Get(name)
	require.True(t, ok, "%s was not written", name)
	s, err := jsonschema.Parse(b)
	require.NoError(t, err)
	return s
}

func modelNames(ms []catalogschema.ClassModel) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func failure(t *testing.T, err error) catalogschema.Failures {
	t.Helper()
	fs, ok := catalogschema.AsFailures(err)
	require.True(t, ok, "expected failures, got %v", err)
	return fs
}

func TestRun_Fixtures(t *testing.T) {
	mem, rep, err := run(t, generator.Options{Concurrency: 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CatalogGroup",
		"CatalogItem",
		"CatalogMember",
		"CsvCatalogItem",
		"ImageryLayerCatalogItem",
		"WebMapServiceCatalogItem",
	}, modelNames(rep.Models))
	assert.Equal(t, []string{
		"CatalogGroup.json",
		"CatalogGroup_type.json",
		"CatalogItem.json",
		"CatalogMember.json",
		"CsvCatalogItem.json",
		"CsvCatalogItem_type.json",
		"ImageryLayerCatalogItem.json",
		"WebMapServiceCatalogItem.json",
		"WebMapServiceCatalogItem_type.json",
		"items.json",
	}, rep.Written)
	assert.Equal(t, rep.Written, mem.Names())
	assert.True(t, rep.CollectionWritten)
	assert.NotEmpty(t, rep.RunID)
	assert.Empty(t, rep.Failures)
}

func TestRun_OwnPropertiesStopAtInheritance(t *testing.T) {
	mem, _, err := run(t, generator.Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "description", "rectangle", "isShown", "blacklist"},
		doc(t, mem, "CatalogMember.json").Properties.Keys())
	assert.Equal(t, []string{"isOpen"}, doc(t, mem, "CatalogGroup.json").Properties.Keys())

	wms := doc(t, mem, "WebMapServiceCatalogItem.json")
	assert.Equal(t, []string{"layers", "parameters", "colorScaleRange", "wmsUrl"}, wms.Properties.Keys())

	layers, _ := wms.Properties.Get("layers")
	assert.Equal(t, "Layers", layers.Title)
	assert.Equal(t, "The WMS layers to include.  To specify multiple layers, separate them\nwith a commas.", layers.Description)

	rng, _ := wms.Properties.Get("colorScaleRange")
	assert.True(t, rng.Type.Is(catalogschema.TypeArray))
	require.NotNil(t, rng.Items)
	assert.True(t, rng.Items.Type.Is(catalogschema.TypeNumber))
	assert.Equal(t, "Color scale range", rng.Title)

	imagery := doc(t, mem, "ImageryLayerCatalogItem.json")
	formats, ok := imagery.Properties.Get("getFeatureInfoFormats")
	require.True(t, ok)
	require.NotNil(t, formats.Items)
	assert.Equal(t, "Format", formats.Items.Title)
	assert.Equal(t, []string{"json", "xml", "html", "text"}, formats.Items.Enum)

	member := doc(t, mem, "CatalogMember.json")
	rect, _ := member.Properties.Get("rectangle")
	assert.Equal(t, 2, *rect.MinItems)
	assert.Equal(t, 4, *rect.MaxItems)
	desc, _ := member.Properties.Get("description")
	assert.Equal(t, catalogschema.FormatTextarea, desc.Format)
}

func TestRun_Shells(t *testing.T) {
	mem, _, err := run(t, generator.Options{}, nil)
	require.NoError(t, err)

	wms := doc(t, mem, "WebMapServiceCatalogItem_type.json")
	assert.Equal(t, "Web Map Service (WMS)", wms.Title)
	assert.Equal(t, "A layer from a Web Map Service server.", wms.Description)
	typ, _ := wms.Properties.Get("type")
	assert.Equal(t, []string{"wms"}, typ.Enum)

	csv := doc(t, mem, "CsvCatalogItem_type.json")
	assert.Equal(t, "CSV file", csv.Title)
	assert.Equal(t, "A CatalogItem representing CSV data.", csv.Description)

	group := doc(t, mem, "CatalogGroup_type.json")
	assert.Equal(t, "Group", group.Title)
	items, ok := group.Properties.Get("items")
	require.True(t, ok)
	assert.Equal(t, catalogschema.CollectionFile, items.Ref)

	_, ok = mem.Get("ImageryLayerCatalogItem_type.json")
	assert.False(t, ok, "abstract classes have no shell")
}

// depth is the longest chain of allOf references from name to the root.
func depth(t *testing.T, mem *storage.Memory, name string) int {
	if name == "CatalogMember.json" {
		return 0
	}
	best := 0
	for _, a := range doc(t, mem, name).AllOf {
		if d := depth(t, mem, a.Ref) + 1; d > best {
			best = d
		}
	}
	return best
}

func TestRun_AllOfDepthMatchesHierarchy(t *testing.T) {
	mem, _, err := run(t, generator.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, depth(t, mem, "WebMapServiceCatalogItem.json"))
	assert.Equal(t, 2, depth(t, mem, "ImageryLayerCatalogItem.json"))
	assert.Equal(t, 2, depth(t, mem, "CsvCatalogItem.json"))
	assert.Equal(t, 1, depth(t, mem, "CatalogItem.json"))
	assert.Equal(t, 1, depth(t, mem, "CatalogGroup.json"))
	assert.Empty(t, doc(t, mem, "CatalogMember.json").AllOf)
}

func TestRun_ValidationUnionNamesOffendingType(t *testing.T) {
	mem, _, err := run(t, generator.Options{Mode: catalogschema.ModeValidation}, nil)
	require.NoError(t, err)
	v, err := validate.NewDocuments(mem.Documents())
	require.NoError(t, err)

	cases := []struct {
		name string
		doc  string
		ok   bool
	}{
		{"valid wms", `[{"name": "a", "type": "wms", "layers": "topp:states"}]`, true},
		{"wms with numeric layers", `[{"name": "a", "type": "wms", "layers": 42}]`, false},
		{"csv ignores wms properties", `[{"name": "a", "type": "csv", "layers": 42}]`, true},
		{"nested in a group", `[{"name": "g", "type": "group", "items": [{"name": "w", "type": "wms", "layers": 42}]}]`, false},
		{"valid group", `{"catalog": [{"name": "g", "type": "group", "isOpen": true, "items": [{"name": "c", "type": "csv"}]}]}`, true},
		{"missing name", `[{"type": "csv"}]`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateBytes(catalogschema.CollectionFile, []byte(tc.doc))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}

	err = v.ValidateBytes(catalogschema.CollectionFile, []byte(`[{"name": "a", "type": "wms", "layers": 42}]`))
	lines := validate.Describe(err)
	assert.True(t, containsLine(lines, "/0/layers"), "%v", lines)
}

func containsLine(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestRun_EditorUnion(t *testing.T) {
	mem, _, err := run(t, generator.Options{Mode: catalogschema.ModeEditor}, nil)
	require.NoError(t, err)
	items := doc(t, mem, catalogschema.CollectionFile).Items
	require.NotNil(t, items)
	var refs []string
	for _, o := range items.OneOf {
		refs = append(refs, o.Ref)
	}
	assert.Equal(t, []string{"CatalogGroup_type.json", "CsvCatalogItem_type.json", "WebMapServiceCatalogItem_type.json"}, refs)
}

const otherCsv = `'use strict';
var defineProperties = require('terriajs-cesium/Source/Core/defineProperties');
var CatalogItem = require('./CatalogItem');
var inherit = require('../Core/inherit');

/**
 * Another CSV reader.
 * @alias OtherCsvCatalogItem
 * @constructor
 * @extends CatalogItem
 */
var OtherCsvCatalogItem = function(terria) {
    CatalogItem.call(this, terria);
};

inherit(CatalogItem, OtherCsvCatalogItem);

defineProperties(OtherCsvCatalogItem.prototype, {
    type : {
        get : function() {
            return 'csv';
        }
    }
});

module.exports = OtherCsvCatalogItem;
`

func TestRun_DuplicateTypeID(t *testing.T) {
	mem, rep, err := run(t, generator.Options{}, map[string]string{"OtherCsvCatalogItem.js": otherCsv})
	fs := failure(t, err)

	dups := fs.ByCode(catalogschema.CodeDuplicateTypeID)
	require.Len(t, dups, 2)
	assert.Equal(t, "CsvCatalogItem", dups[0].Class)
	assert.Equal(t, "OtherCsvCatalogItem", dups[1].Class)
	assert.ErrorIs(t, err, catalogschema.ErrDuplicateTypeID)

	assert.False(t, rep.CollectionWritten)
	_, ok := mem.Get("CsvCatalogItem.json")
	assert.False(t, ok)
	_, ok = mem.Get("WebMapServiceCatalogItem_type.json")
	assert.True(t, ok, "unrelated classes are still written")
}

const broken = `'use strict';
/**
 * Has no inherit call.
 * @alias BrokenCatalogItem
 * @constructor
 */
var BrokenCatalogItem = function(terria) {
};
module.exports = BrokenCatalogItem;
`

func TestRun_StructuralFailureWithholdsCollection(t *testing.T) {
	mem, rep, err := run(t, generator.Options{}, map[string]string{"BrokenCatalogItem.js": broken})
	fs := failure(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "BrokenCatalogItem", fs[0].Class)
	assert.Equal(t, catalogschema.CodeStructuralScan, fs[0].Code)
	assert.True(t, strings.HasSuffix(fs[0].File, "BrokenCatalogItem.js"))

	assert.False(t, rep.CollectionWritten)
	_, ok := mem.Get(catalogschema.CollectionFile)
	assert.False(t, ok)
	assert.Contains(t, rep.Written, "CsvCatalogItem.json")
}

func TestRun_AllowPartial(t *testing.T) {
	mem, rep, err := run(t, generator.Options{AllowPartial: true, Mode: catalogschema.ModeEditor}, map[string]string{"BrokenCatalogItem.js": broken})
	require.Error(t, err)
	assert.True(t, rep.CollectionWritten)
	items := doc(t, mem, catalogschema.CollectionFile).Items
	assert.Len(t, items.OneOf, 3)
}

func TestRun_RejectedAncestorPropagates(t *testing.T) {
	_, rep, err := run(t, generator.Options{}, map[string]string{
		"ImageryLayerCatalogItem.js": strings.Replace(broken, "BrokenCatalogItem", "ImageryLayerCatalogItem", -1),
	})
	fs := failure(t, err)
	assert.Len(t, fs.ByCode(catalogschema.CodeStructuralScan), 1)
	parents := fs.ByCode(catalogschema.CodeUnresolvedParent)
	require.Len(t, parents, 1)
	assert.Equal(t, "WebMapServiceCatalogItem", parents[0].Class)
	assert.NotContains(t, modelNames(rep.Models), "WebMapServiceCatalogItem")
}

func TestRun_RejectedFamilyRootPropagates(t *testing.T) {
	mem, rep, err := run(t, generator.Options{AllowPartial: true, Mode: catalogschema.ModeEditor}, map[string]string{
		"CatalogItem.js": strings.Replace(broken, "BrokenCatalogItem", "CatalogItem", -1),
	})
	fs := failure(t, err)
	scans := fs.ByCode(catalogschema.CodeStructuralScan)
	require.Len(t, scans, 1)
	assert.Equal(t, "CatalogItem", scans[0].Class)

	var rejected []string
	for _, f := range fs.ByCode(catalogschema.CodeUnresolvedParent) {
		rejected = append(rejected, f.Class)
	}
	assert.ElementsMatch(t, []string{"CsvCatalogItem", "ImageryLayerCatalogItem", "WebMapServiceCatalogItem"}, rejected)
	assert.Equal(t, []string{"CatalogGroup", "CatalogMember"}, modelNames(rep.Models))

	require.True(t, rep.CollectionWritten)
	items := doc(t, mem, catalogschema.CollectionFile).Items
	require.Len(t, items.OneOf, 1)
	assert.Equal(t, "CatalogGroup_type.json", items.OneOf[0].Ref)
	_, ok := mem.Get("CsvCatalogItem.json")
	assert.False(t, ok)
}

func TestRun_ClassLevelFailures(t *testing.T) {
	undocumented := `var inherit = require('../Core/inherit');
var UndocumentedCatalogItem = function(terria) {
    /**
     * Gets or sets the thing.
     * @type {String}
     */
    this.thing = undefined;
};
inherit(CatalogItem, UndocumentedCatalogItem);
`
	lower := `var inherit = require('../Core/inherit');
/**
 * Declares an array of lower-case objects.
 * @alias LowerCatalogItem
 * @constructor
 */
var LowerCatalogItem = function(terria) {
    /**
     * Gets or sets the columns.
     * @type {Array.<object>}
     */
    this.columns = undefined;
};
inherit(CatalogItem, LowerCatalogItem);
`
	_, _, err := run(t, generator.Options{}, map[string]string{
		"UndocumentedCatalogItem.js": undocumented,
		"LowerCatalogItem.js":        lower,
	})
	fs := failure(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "LowerCatalogItem", fs[0].Class)
	assert.Equal(t, catalogschema.CodeUnsupportedArrayType, fs[0].Code)
	assert.Equal(t, "UndocumentedCatalogItem", fs[1].Class)
	assert.Equal(t, catalogschema.CodeMissingClassDeclaration, fs[1].Code)
}

func TestRun_InvalidDocumentation(t *testing.T) {
	_, files := models(t, nil)
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "CsvCatalogItem.json"), []byte(`{"kind": "class"}`), 0o644))

	src := jsdoc.Dir{Path: docs, Fallback: jsdoc.Native{}}
	rep, err := generator.New(generator.Options{}, storage.NewMemory(), src, nil).Run(context.Background(), files)
	fs := failure(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, catalogschema.CodeInvalidDocumentation, fs[0].Code)
	assert.NotContains(t, modelNames(rep.Models), "CsvCatalogItem")
}

type failingSink struct {
	*storage.Memory
	fail string
}

func (s failingSink) Write(ctx context.Context, name string, data []byte) error {
	if name == s.fail {
		return errors.New("quota exceeded")
	}
	return s.Memory.Write(ctx, name, data)
}

func TestRun_WriteFailure(t *testing.T) {
	_, files := models(t, nil)
	sink := failingSink{Memory: storage.NewMemory(), fail: "CsvCatalogItem_type.json"}
	rep, err := generator.New(generator.Options{}, sink, nil, nil).Run(context.Background(), files)
	fs := failure(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, catalogschema.CodeWriteFailure, fs[0].Code)
	assert.Equal(t, "CsvCatalogItem", fs[0].Class)
	assert.NotContains(t, rep.Written, "CsvCatalogItem_type.json")
	assert.True(t, rep.CollectionWritten)
}

func TestRun_IndentAndStatic(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html></html>"), 0o644))

	mem, _, err := run(t, generator.Options{Indent: 2, StaticDir: static}, nil)
	require.NoError(t, err)
	b, _ := mem.Get("CatalogItem.json")
	assert.True(t, strings.HasPrefix(string(b), "{\n  \"type\": \"object\""), string(b))
	html, ok := mem.Get("index.html")
	require.True(t, ok)
	assert.Equal(t, "<html></html>", string(html))
}

func TestRun_Logs(t *testing.T) {
	_, files := models(t, nil)
	core, logs := observer.New(zapcore.DebugLevel)
	rep, err := generator.New(generator.Options{}, storage.NewMemory(), nil, zap.New(core)).Run(context.Background(), files)
	require.NoError(t, err)

	composed := logs.FilterMessage("class composed").All()
	require.Len(t, composed, 3)
	for _, e := range composed {
		assert.Equal(t, rep.RunID, e.ContextMap()["run_id"])
	}
	assert.Len(t, logs.FilterMessage("abstract class composed").All(), 3)
}

func TestModel(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "models", "WebMapServiceCatalogItem.js"))
	require.NoError(t, err)
	g := generator.New(generator.Options{}, storage.NewMemory(), nil, nil)
	m, err := g.Model(context.Background(), discover.File{Class: "WebMapServiceCatalogItem", Path: "WebMapServiceCatalogItem.js"}, src)
	require.NoError(t, err)

	assert.Equal(t, "ImageryLayerCatalogItem", m.ParentName)
	assert.Equal(t, 49, m.InheritsAtLine)
	assert.Equal(t, "wms", m.TypeID)
	assert.Equal(t, "Web Map Service (WMS)", m.TypeName)
	require.NotNil(t, m.Class)
	assert.Equal(t, "WebMapServiceCatalogItem", m.Class.Name)
	for _, p := range m.OwnProperties {
		assert.Less(t, p.Line, m.InheritsAtLine, p.Name)
	}
	assert.Equal(t, []string{"Array.<Number>"}, m.OwnProperties[2].DeclaredTypes)
}
