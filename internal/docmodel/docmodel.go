// Package docmodel turns documentation records into the property and class
// annotations of one class.
package docmodel

import (
	"regexp"
	"strings"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/jsdoc"
)

// RectangleType is the geographic rectangle type, which has no schema
// primitive and is replaced by a numeric and a string array.
const RectangleType = "Rectangle"

var rectangleTypes = []string{"Array.<Number>", "Array.<String>"}

var (
	reRepresentable = regexp.MustCompile(`(?i)^(Boolean|Number|String|Object|LegendUrl|Array(\.<(String|Number|Object|GetFeatureInfoFormat)>)?)$`)
	reEditorType    = regexp.MustCompile(`^\s*(\{([^}]*)\})?(.*)$`)
)

// Representable reports whether a declared type can be expressed in a schema.
func Representable(t string) bool { return reRepresentable.MatchString(t) }

// ParseEditorTypes parses an editortype tag. Both "{Number[]|String} text"
// and "Number[]|String" are accepted.
func ParseEditorTypes(v string) []string {
	m := reEditorType.FindStringSubmatch(v)
	list := strings.TrimSpace(m[3])
	if m[1] != "" {
		list = m[2]
	}
	var out []string
	for _, t := range strings.Split(list, "|") {
		if c := jsdoc.CanonicalType(t); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// OwnProperties returns the members of class declared before inheritsAt, in
// record order. A member survives when one of its declared types is
// representable or when an editortype tag overrides its types.
func OwnProperties(recs []jsdoc.Record, class string, inheritsAt int) []catalogschema.PropertyAnnotation {
	var out []catalogschema.PropertyAnnotation
	for _, r := range recs {
		if r.Kind != jsdoc.KindMember || r.MemberOf != class || r.Line >= inheritsAt {
			continue
		}
		p := catalogschema.PropertyAnnotation{
			Name:           r.Name,
			Line:           r.Line,
			DeclaredTypes:  append([]string(nil), r.TypeNames...),
			RawDescription: r.Description,
		}
		if len(r.Tags) > 0 {
			p.Tags = make(map[string]string, len(r.Tags))
			for k, v := range r.Tags {
				p.Tags[k] = v
			}
		}
		if len(p.DeclaredTypes) > 0 && p.DeclaredTypes[0] == RectangleType {
			p.DeclaredTypes = append([]string(nil), rectangleTypes...)
		}
		if v, ok := p.Tag(catalogschema.TagEditorType); ok {
			p.DeclaredTypes = ParseEditorTypes(v)
		}
		if p.Overridden() || anyRepresentable(p.DeclaredTypes) {
			out = append(out, p)
		}
	}
	return out
}

func anyRepresentable(types []string) bool {
	for _, t := range types {
		if Representable(t) {
			return true
		}
	}
	return false
}

// ClassAnnotation collects the class-level documentation. It returns nil when
// no class or constructor record names the class.
func ClassAnnotation(recs []jsdoc.Record, class string) *catalogschema.ClassAnnotation {
	var matching []jsdoc.Record
	declared := false
	for _, r := range recs {
		if r.Name != class || r.MemberOf != "" {
			continue
		}
		if r.Kind == jsdoc.KindClass || r.Kind == jsdoc.KindConstructor {
			declared = true
		}
		matching = append(matching, r)
	}
	if !declared {
		return nil
	}
	return &catalogschema.ClassAnnotation{
		Name:        class,
		Title:       Lookup(matching, catalogschema.TagEditorTitle, nil),
		Description: Lookup(matching, catalogschema.TagEditorDescription, func(r jsdoc.Record) string { return r.Description }),
	}
}

// Lookup returns the first non-empty tag value across recs, then the first
// non-empty field value. field may be nil.
func Lookup(recs []jsdoc.Record, tag string, field func(jsdoc.Record) string) string {
	for _, r := range recs {
		if v, _ := r.Tag(tag); strings.TrimSpace(v) != "" {
			return v
		}
	}
	if field == nil {
		return ""
	}
	for _, r := range recs {
		if v := field(r); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
