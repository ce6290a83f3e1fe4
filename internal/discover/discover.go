// Package discover lists the class files of a model directory.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	json "github.com/goccy/go-json"
)

// DefaultInclude matches the member, item and group class files.
const DefaultInclude = `Catalog(Item|Group|Member)\.js$`

// DefaultExclude names deprecated or shim files that match the include filter.
var DefaultExclude = []string{"ArcGisMapServerCatalogGroup", "addUserCatalogMember"}

// File is one class source file.
type File struct {
	// Class is the base name without extension.
	Class string
	Path  string
}

// Options select which files are classes.
type Options struct {
	// Dir is listed non-recursively when Globs is empty.
	Dir string
	// Globs may use ** to match any number of directories.
	Globs []string
	// Include is a regular expression matched against the base name.
	Include string
	// Exclude drops files whose base name contains any entry.
	Exclude []string
}

// Files returns the matching class files ordered by class name.
func Files(opts Options) ([]File, error) {
	inc := opts.Include
	if inc == "" {
		inc = DefaultInclude
	}
	re, err := regexp.Compile(inc)
	if err != nil {
		return nil, fmt.Errorf("include pattern: %w", err)
	}

	var paths []string
	if len(opts.Globs) > 0 {
		for _, g := range opts.Globs {
			ms, err := doublestar.Glob(g)
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", g, err)
			}
			paths = append(paths, ms...)
		}
	} else {
		ents, err := os.ReadDir(opts.Dir)
		if err != nil {
			return nil, err
		}
		for _, e := range ents {
			if e.Type().IsRegular() {
				paths = append(paths, filepath.Join(opts.Dir, e.Name()))
			}
		}
	}

	seen := map[string]bool{}
	var out []File
	for _, p := range paths {
		base := filepath.Base(p)
		if !re.MatchString(base) || excluded(base, opts.Exclude) || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, File{Class: strings.TrimSuffix(base, filepath.Ext(base)), Path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out, nil
}

func excluded(base string, list []string) bool {
	for _, x := range list {
		if x != "" && strings.Contains(base, x) {
			return true
		}
	}
	return false
}

// Version reads the version field of <sourceDir>/package.json.
func Version(sourceDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(sourceDir, "package.json"))
	if err != nil {
		return "", err
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("package.json: %w", err)
	}
	if pkg.Version == "" {
		return "", fmt.Errorf("package.json has no version")
	}
	return pkg.Version, nil
}
