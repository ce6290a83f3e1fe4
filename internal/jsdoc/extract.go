package jsdoc

import (
	"regexp"
	"strings"
)

// tags JSDoc itself understands; everything else becomes a custom tag.
var standardTags = map[string]bool{
	"abstract": true, "access": true, "alias": true, "augments": true, "author": true,
	"callback": true, "class": true, "constant": true, "constructor": true, "default": true,
	"deprecated": true, "enum": true, "example": true, "exports": true, "extends": true,
	"function": true, "global": true, "ignore": true, "inner": true, "instance": true,
	"kind": true, "lends": true, "license": true, "memberof": true, "memberOf": true,
	"method": true, "module": true, "name": true, "namespace": true, "param": true,
	"private": true, "property": true, "protected": true, "public": true, "readonly": true,
	"requires": true, "return": true, "returns": true, "see": true, "since": true,
	"static": true, "this": true, "throws": true, "todo": true, "type": true,
	"typedef": true, "version": true,
}

var (
	reFuncDecl    = regexp.MustCompile(`^\s*function\s+([A-Za-z_$][\w$]*)\s*\(`)
	reFuncAssign  = regexp.MustCompile(`^\s*(?:var|let|const)?\s*([A-Za-z_$][\w$]*)\s*=\s*function\b`)
	reClassDecl   = regexp.MustCompile(`^\s*class\s+([A-Za-z_$][\w$]*)`)
	reThisMember  = regexp.MustCompile(`^\s*this\.([A-Za-z_$][\w$]*)\s*=`)
	reProtoMember = regexp.MustCompile(`^\s*([A-Za-z_$][\w$]*)\.prototype\.([A-Za-z_$][\w$]*)\s*=`)
	reStatic      = regexp.MustCompile(`^\s*([A-Z][\w$]*)\.([A-Za-z_$][\w$]*)\s*=`)
	reObjectKey   = regexp.MustCompile(`^\s*['"]?([A-Za-z_$][\w$]*)['"]?\s*:`)
)

// Extract reads every /** */ block of a JavaScript file. Members documented
// with this.x = ... or inside an object literal are attributed to the most
// recently documented class, as JSDoc does for constructor bodies and
// defineProperties blocks.
func Extract(src string) ([]Record, Diag) {
	d := &simpleDiag{}
	var out []Record
	current := ""
	pos := 0
	for {
		start := strings.Index(src[pos:], "/**")
		if start < 0 {
			break
		}
		start += pos
		if strings.HasPrefix(src[start:], "/**/") {
			pos = start + 4
			continue
		}
		end := strings.Index(src[start+3:], "*/")
		if end < 0 {
			d.warnf("unterminated comment at line %d", lineAt(src, start))
			break
		}
		end += start + 3
		pos = end + 2

		block := parseBlock(src[start+3 : end])
		code, line := nextCodeLine(src, pos)
		rec, ok := block.record(code, line, current)
		if !ok {
			continue
		}
		if rec.Kind == KindClass {
			current = rec.Name
		}
		out = append(out, rec)
	}
	return out, d
}

type tagLine struct {
	name  string
	value string
}

type block struct {
	description string
	tags        []tagLine
}

func parseBlock(body string) block {
	var b block
	var desc []string
	inTags := false
	for _, raw := range strings.Split(body, "\n") {
		l := strings.TrimSpace(raw)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "@") {
			inTags = true
			name, value, _ := strings.Cut(l[1:], " ")
			b.tags = append(b.tags, tagLine{name: strings.TrimSpace(name), value: strings.TrimSpace(value)})
			continue
		}
		if inTags {
			if l != "" && len(b.tags) > 0 {
				last := &b.tags[len(b.tags)-1]
				last.value = strings.TrimSpace(last.value + " " + l)
			}
			continue
		}
		desc = append(desc, l)
	}
	b.description = strings.TrimSpace(strings.Join(desc, "\n"))
	return b
}

func (b block) has(name string) (string, bool) {
	for i := len(b.tags) - 1; i >= 0; i-- {
		if b.tags[i].name == name {
			return b.tags[i].value, true
		}
	}
	return "", false
}

// record turns a block plus the code line it precedes into a Record.
// Blocks tagged private or ignore yield no record.
func (b block) record(code string, line int, current string) (Record, bool) {
	if _, ok := b.has("private"); ok {
		return Record{}, false
	}
	if _, ok := b.has("ignore"); ok {
		return Record{}, false
	}
	r := Record{Line: line, Description: b.description}
	for _, t := range b.tags {
		if standardTags[t.name] {
			continue
		}
		if r.Tags == nil {
			r.Tags = map[string]string{}
		}
		r.Tags[t.name] = t.value
	}
	if v, ok := b.has("type"); ok {
		r.TypeNames = ParseTypeExpression(v)
	}

	codeName, codeOwner, codeKind := classifyCode(code, current)
	_, isClass := b.has("class")
	_, isCtor := b.has("constructor")
	switch {
	case isClass || isCtor:
		r.Kind = KindClass
		r.Name = codeName
		if v, _ := b.has("class"); v != "" {
			r.Name = firstWord(v)
		}
	case codeKind != "":
		r.Kind = codeKind
		r.Name = codeName
		r.MemberOf = codeOwner
	case len(r.TypeNames) > 0:
		r.Kind = KindMember
		r.Name = codeName
		r.MemberOf = current
	default:
		return Record{}, false
	}
	if v, ok := b.has("alias"); ok && v != "" && r.Kind == KindClass {
		r.Name = firstWord(v)
	}
	if v, ok := b.has("name"); ok && v != "" {
		r.Name = firstWord(v)
	}
	if v, ok := b.has("memberof"); ok && v != "" {
		r.MemberOf = owner(v)
	} else if v, ok := b.has("memberOf"); ok && v != "" {
		r.MemberOf = owner(v)
	}
	if r.Name == "" {
		return Record{}, false
	}
	return r, true
}

// classifyCode names the declaration on a code line.
func classifyCode(code, current string) (name, owner string, kind Kind) {
	if m := reProtoMember.FindStringSubmatch(code); m != nil {
		return m[2], m[1], KindMember
	}
	if m := reThisMember.FindStringSubmatch(code); m != nil {
		return m[1], current, KindMember
	}
	if m := reFuncDecl.FindStringSubmatch(code); m != nil {
		return m[1], "", KindFunction
	}
	if m := reFuncAssign.FindStringSubmatch(code); m != nil {
		return m[1], "", KindFunction
	}
	if m := reClassDecl.FindStringSubmatch(code); m != nil {
		return m[1], "", KindClass
	}
	if m := reStatic.FindStringSubmatch(code); m != nil {
		return m[2], m[1], KindMember
	}
	if m := reObjectKey.FindStringSubmatch(code); m != nil {
		return m[1], current, KindMember
	}
	return "", "", ""
}

// ParseTypeExpression splits a JSDoc type expression such as
// {String|Number[]} into canonical names ("String", "Array.<Number>").
func ParseTypeExpression(expr string) []string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "{") {
		if end := matchingBrace(expr); end > 0 {
			expr = expr[1:end]
		}
	}
	expr = strings.TrimSpace(expr)
	expr = strings.TrimSuffix(strings.TrimPrefix(expr, "("), ")")
	var out []string
	for _, part := range splitTopLevel(expr, '|') {
		if n := CanonicalType(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// CanonicalType normalizes one type name to JSDoc's internal form:
// Number[] and Array<Number> both become Array.<Number>.
func CanonicalType(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimLeft(t, "?!")
	t = strings.TrimSuffix(t, "=")
	if strings.HasSuffix(t, "[]") {
		return "Array.<" + CanonicalType(strings.TrimSuffix(t, "[]")) + ">"
	}
	if strings.HasPrefix(t, "Array<") && strings.HasSuffix(t, ">") {
		return "Array.<" + CanonicalType(t[len("Array<"):len(t)-1]) + ">"
	}
	return t
}

func matchingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func nextCodeLine(src string, pos int) (string, int) {
	rest := src[pos:]
	line := lineAt(src, pos)
	for _, l := range strings.Split(rest, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			return t, line
		}
		line++
	}
	return "", line
}

func lineAt(src string, pos int) int {
	return strings.Count(src[:pos], "\n") + 1
}

// owner normalizes a memberof value: Foo.prototype and Foo# both name Foo.
func owner(v string) string {
	v = firstWord(v)
	v = strings.TrimSuffix(v, "#")
	return strings.TrimSuffix(v, ".prototype")
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
