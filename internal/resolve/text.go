package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Abbreviations are rendered upper-cased in derived titles.
var Abbreviations = []string{"WMS", "URL", "KML", "CSV", "JSON", "ID", "GPX", "CZML", "WFS", "WMTS", "GeoJSON", "CKAN"}

var abbrev = func() map[string]bool {
	m := make(map[string]bool, len(Abbreviations))
	for _, a := range Abbreviations {
		m[strings.ToLower(a)] = true
	}
	return m
}()

// Titleify turns a camel-case property name into words: the first word is
// capitalized, later words are lower-cased, abbreviations are upper-cased.
// Runs of capitals are kept together, so myWMSLayer becomes "My WMS layer".
// Applying Titleify to its own output changes nothing.
func Titleify(name string) string {
	words := splitWords(name)
	for i, w := range words {
		lw := strings.ToLower(w)
		switch {
		case abbrev[lw]:
			words[i] = strings.ToUpper(w)
		case i == 0:
			words[i] = cases.Title(language.English).String(lw)
		default:
			words[i] = lw
		}
	}
	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	rs := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for i, r := range rs {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

var (
	reObservable = regexp.MustCompile(`\s*This property is observable\.`)
	reMemberLink = regexp.MustCompile(`\{@link ([^|}#]+)#([^}]*)\}`)
	reLabelLink  = regexp.MustCompile(`\{@link ([^|}]+\|)?([^}]+)\}`)
)

// Describe normalizes a raw documentation description.
func Describe(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "Gets or sets the"); ok {
		s = "The" + rest
	} else if rest, ok := strings.CutPrefix(s, "Gets or sets a"); ok {
		s = "A" + rest
	}
	s = reObservable.ReplaceAllString(s, "")
	return ReplaceLinks(s)
}

// ReplaceLinks rewrites {@link Target#member} as "Target's member" and
// {@link target|label} as "label".
func ReplaceLinks(s string) string {
	s = reMemberLink.ReplaceAllString(s, "$1's $2")
	return reLabelLink.ReplaceAllString(s, "$2")
}
