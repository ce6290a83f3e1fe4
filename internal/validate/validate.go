// Package validate checks catalog files against emitted schema documents.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"

	catalogschema "github.com/reoring/catalogschema"
)

const memBase = "mem://catalogschema/"

// DefaultCacheSize bounds the number of compiled root schemas kept.
const DefaultCacheSize = 32

// Validator compiles schema documents on demand and caches compiled roots.
// It is safe for concurrent use.
type Validator struct {
	base string

	mu       sync.Mutex // guards compiler
	compiler *jsonschema.Compiler
	cache    *lru.Cache[string, *jsonschema.Schema]
}

func newValidator(base string, size int) (*Validator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *jsonschema.Schema](size)
	if err != nil {
		return nil, err
	}
	return &Validator{base: base, compiler: jsonschema.NewCompiler(), cache: cache}, nil
}

// NewDir returns a Validator reading schema documents from dir.
func NewDir(dir string) (*Validator, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs) + "/"}
	return newValidator(u.String(), DefaultCacheSize)
}

// NewDocuments returns a Validator over in-memory documents keyed by name.
func NewDocuments(docs map[string][]byte) (*Validator, error) {
	v, err := newValidator(memBase, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	for name, b := range docs {
		if err := v.compiler.AddResource(memBase+name, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
	}
	return v, nil
}

// Schema returns the compiled schema of the named root document.
func (v *Validator) Schema(root string) (*jsonschema.Schema, error) {
	if s, ok := v.cache.Get(root); ok {
		return s, nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.cache.Get(root); ok {
		return s, nil
	}
	s, err := v.compiler.Compile(v.base + root)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", root, err)
	}
	v.cache.Add(root, s)
	return s, nil
}

// Validate checks a decoded JSON value against the named root document.
func (v *Validator) Validate(root string, doc any) error {
	s, err := v.Schema(root)
	if err != nil {
		return err
	}
	return s.Validate(doc)
}

// ValidateBytes decodes data and validates it. Documents with repeated
// object members are rejected with a DuplicateKeysError before validation.
// When root is the collection document and data is an object with a catalog
// array, the array is validated instead.
func (v *Validator) ValidateBytes(root string, data []byte) error {
	dups, err := DuplicateKeys(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(dups) > 0 {
		return &DuplicateKeysError{Pointers: dups}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if root == catalogschema.CollectionFile {
		if obj, ok := doc.(map[string]any); ok {
			if cat, ok := obj["catalog"].([]any); ok {
				doc = cat
			}
		}
	}
	return v.Validate(root, doc)
}

// FileError ties a validation error to the file it was found in.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// ValidateFiles validates every file and combines the per-file errors.
func (v *Validator) ValidateFiles(root string, paths ...string) error {
	var errs error
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := v.ValidateBytes(root, data); err != nil {
			errs = multierr.Append(errs, &FileError{Path: p, Err: err})
		}
	}
	return errs
}

// Describe flattens a validation error into one line per failing location,
// prefixed with the file name for a FileError.
func Describe(err error) []string {
	prefix := ""
	var fe *FileError
	if errors.As(err, &fe) {
		prefix = fe.Path + ": "
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s%s: %s", prefix, loc, strings.TrimSpace(e.Message)))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
