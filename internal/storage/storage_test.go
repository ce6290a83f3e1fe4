package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/reoring/catalogschema/internal/storage"
)

func TestEncode(t *testing.T) {
	v := map[string]any{"a": []int{1}}

	b, err := storage.Encode(v, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1]}`, string(b))

	b, err = storage.Encode(v, 4)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": [\n        1\n    ]\n}", string(b))
}

func TestFS_WriteCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	sink := storage.NewFS(root)
	require.NoError(t, sink.Write(context.Background(), "v1/images/logo.png", []byte("png")))

	got, err := os.ReadFile(filepath.Join(root, "v1", "images", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
}

func TestMemory(t *testing.T) {
	m := storage.NewMemory()
	ctx := context.Background()
	buf := []byte("one")
	require.NoError(t, m.Write(ctx, "b.json", buf))
	require.NoError(t, m.Write(ctx, "a.json", []byte("two")))
	buf[0] = 'X'

	got, ok := m.Get("b.json")
	require.True(t, ok)
	assert.Equal(t, "one", string(got), "writes copy their input")
	assert.Equal(t, []string{"a.json", "b.json"}, m.Names())

	docs := m.Documents()
	docs["a.json"][0] = 'X'
	got, _ = m.Get("a.json")
	assert.Equal(t, "two", string(got))

	_, ok = m.Get("missing.json")
	assert.False(t, ok)
}

func TestCopyStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "editor.css"), []byte("body{}"), 0o644))

	m := storage.NewMemory()
	require.NoError(t, storage.CopyStatic(context.Background(), m, dir))
	assert.Equal(t, []string{"css/editor.css", "index.html"}, m.Names())
}

type failingSink struct{ fail string }

func (s failingSink) Write(_ context.Context, name string, _ []byte) error {
	if name == s.fail {
		return errors.New("disk full")
	}
	return nil
}

func TestCopyStatic_CombinesErrors(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}
	err := storage.CopyStatic(context.Background(), failingSink{fail: "b.txt"}, dir)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)

	err = storage.CopyStatic(context.Background(), storage.NewMemory(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestNewS3_Validation(t *testing.T) {
	_, err := storage.NewS3(storage.S3Config{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = storage.NewS3(storage.S3Config{Endpoint: "localhost:9000", Bucket: "schemas"})
	assert.ErrorContains(t, err, "access key")

	_, err = storage.NewS3(storage.S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")
}

func TestS3_Key(t *testing.T) {
	cfg := storage.S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "schemas"}
	s, err := storage.NewS3(cfg)
	require.NoError(t, err)
	assert.Equal(t, "items.json", s.Key("items.json"))

	cfg.Prefix = "/terriajs/v8.0.0/"
	s, err = storage.NewS3(cfg)
	require.NoError(t, err)
	assert.Equal(t, "terriajs/v8.0.0/items.json", s.Key("items.json"))
	assert.True(t, cfg.Enabled())
	assert.False(t, storage.S3Config{Endpoint: "  "}.Enabled())
}
