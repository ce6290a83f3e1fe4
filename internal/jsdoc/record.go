// Package jsdoc turns JSDoc comment blocks into strictly typed records.
//
// Records come either from the built-in extractor (Extract), which reads
// /** ... */ blocks straight from JavaScript source, or from the JSON emitted
// by jsdoc-parse (Decode). Both paths validate at the boundary so the rest of
// the pipeline never sees a free-form property bag.
package jsdoc

import "fmt"

// Kind is the JSDoc doclet kind.
type Kind string

const (
	KindClass       Kind = "class"
	KindConstructor Kind = "constructor"
	KindMember      Kind = "member"
	KindFunction    Kind = "function"
	KindTypedef     Kind = "typedef"
	KindNamespace   Kind = "namespace"
)

// Record is one documentation comment.
type Record struct {
	Kind     Kind
	Name     string
	MemberOf string
	// Line is the 1-based line of the code the comment documents.
	Line        int
	TypeNames   []string
	Description string
	// Tags holds custom tags; the last occurrence of a tag wins.
	Tags map[string]string
}

// Tag returns a custom tag value.
func (r Record) Tag(name string) (string, bool) {
	v, ok := r.Tags[name]
	return v, ok
}

// Diag carries non-fatal warnings produced while reading documentation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
