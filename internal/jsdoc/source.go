package jsdoc

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Source yields the documentation records for one class file.
type Source interface {
	Records(ctx context.Context, class, file string, src []byte) ([]Record, Diag, error)
}

// Native extracts records from the source text itself.
type Native struct{}

func (Native) Records(_ context.Context, _, _ string, src []byte) ([]Record, Diag, error) {
	recs, d := Extract(string(src))
	return recs, d, nil
}

// Dir reads pre-generated jsdoc-parse output from Dir/<class>.json. When the
// file does not exist, Fallback is used if set.
type Dir struct {
	Path     string
	Fallback Source
}

func (s Dir) Records(ctx context.Context, class, file string, src []byte) ([]Record, Diag, error) {
	data, err := os.ReadFile(filepath.Join(s.Path, class+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && s.Fallback != nil {
			return s.Fallback.Records(ctx, class, file, src)
		}
		return nil, &simpleDiag{}, err
	}
	return Decode(data)
}
