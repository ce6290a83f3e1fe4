// Package storage writes emitted documents to a destination.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/multierr"
)

// Sink stores named documents. Distinct names never collide, so writes may be
// issued concurrently.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) error
}

// Encode renders v as JSON indented by indent spaces; indent 0 is compact.
func Encode(v any, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
}

// FS writes documents below a directory.
type FS struct {
	Root string
}

// NewFS returns an FS sink rooted at dir.
func NewFS(dir string) *FS { return &FS{Root: dir} }

func (s *FS) Write(_ context.Context, name string, data []byte) error {
	p := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Memory keeps documents in memory.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory { return &Memory{docs: map[string][]byte{}} }

func (m *Memory) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = append([]byte(nil), data...)
	return nil
}

// Get returns a stored document.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.docs[name]
	return b, ok
}

// Names lists stored documents in order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.docs))
	for n := range m.docs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Documents returns a copy of every stored document.
func (m *Memory) Documents() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.docs))
	for n, b := range m.docs {
		out[n] = append([]byte(nil), b...)
	}
	return out
}

// CopyStatic writes every regular file below dir to sink, keyed by its
// slash-separated path relative to dir. All files are attempted; errors are
// combined.
func CopyStatic(ctx context.Context, sink Sink, dir string) error {
	var errs error
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		errs = multierr.Append(errs, sink.Write(ctx, filepath.ToSlash(rel), data))
		return nil
	})
	return multierr.Append(errs, walkErr)
}
