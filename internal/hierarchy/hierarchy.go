// Package hierarchy recovers the parent of a class and the line where its
// inherited section begins.
//
// Model files never declare their parent with a language keyword. They call
// inherit(Parent, Child) at module scope, and the root class instead attaches
// its shared property block with defineProperties(Root.prototype, ...). The
// line of that call splits documented members into own members (above) and
// accessor blocks that run after inheritance is wired (below).
package hierarchy

import (
	"fmt"
	"regexp"
	"strings"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/jslex"
)

// Result is the outcome of a structural scan.
type Result struct {
	// Parent is empty for the root class.
	Parent string
	// Line is the 1-based line of the marker.
	Line int
}

// ParentResolver finds the inheritance marker of a class in a comment-free
// line stream.
type ParentResolver interface {
	Resolve(class string, lines []jslex.Line) (Result, bool)
}

// ResolverFunc adapts a function to ParentResolver.
type ResolverFunc func(class string, lines []jslex.Line) (Result, bool)

func (f ResolverFunc) Resolve(class string, lines []jslex.Line) (Result, bool) {
	return f(class, lines)
}

// InheritResolver recognizes the inherit(Parent, Child) convention.
type InheritResolver struct {
	family  catalogschema.Family
	inherit *regexp.Regexp
	root    *regexp.Regexp
}

// NewInheritResolver builds a resolver for the given family names.
func NewInheritResolver(f catalogschema.Family) *InheritResolver {
	f = f.WithDefaults()
	return &InheritResolver{
		family:  f,
		inherit: regexp.MustCompile(`\binherit\s*\(\s*([A-Za-z0-9_$-]+)(.*)`),
		root:    regexp.MustCompile(`\bdefineProperties\s*\(\s*` + regexp.QuoteMeta(f.Root) + `\.prototype\b`),
	}
}

// Resolve returns the first matching line. For the root class only the root
// marker counts; for every other class the inherit call must mention the
// family marker after the parent name. The parent itself may be an
// intermediate type such as ImageryLayerCatalogItem.
func (r *InheritResolver) Resolve(class string, lines []jslex.Line) (Result, bool) {
	isRoot := class == r.family.Root
	for _, l := range lines {
		if isRoot {
			if r.root.MatchString(l.Text) {
				return Result{Line: l.Number}, true
			}
			continue
		}
		m := r.inherit.FindStringSubmatch(l.Text)
		if m == nil {
			continue
		}
		if strings.Contains(m[2], r.family.Marker) {
			return Result{Parent: m[1], Line: l.Number}, true
		}
	}
	return Result{}, false
}

// Scan runs resolver over a lexed source file. A miss is reported as
// catalogschema.ErrStructuralScan.
func Scan(resolver ParentResolver, class, file string, lexed jslex.Lexed) (Result, error) {
	res, ok := resolver.Resolve(class, lexed.Lines)
	if !ok {
		return Result{}, fmt.Errorf("%w: couldn't find 'inherits' line in %s", catalogschema.ErrStructuralScan, file)
	}
	return res, nil
}
