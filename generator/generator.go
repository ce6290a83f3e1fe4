// Package generator runs a derivation over a batch of class files: every
// class is scanned, documented, resolved and composed concurrently, then the
// batch is checked as a whole before documents and the collection schema are
// written.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/compose"
	"github.com/reoring/catalogschema/internal/discover"
	"github.com/reoring/catalogschema/internal/docmodel"
	"github.com/reoring/catalogschema/internal/hierarchy"
	"github.com/reoring/catalogschema/internal/jsdoc"
	"github.com/reoring/catalogschema/internal/jslex"
	"github.com/reoring/catalogschema/internal/resolve"
	"github.com/reoring/catalogschema/internal/storage"
	"github.com/reoring/catalogschema/internal/union"
	"github.com/reoring/catalogschema/jsonschema"
)

// Options configure a Generator.
type Options struct {
	Family catalogschema.Family
	// Mode is used only for the collection schema.
	Mode catalogschema.Mode
	// Indent of emitted documents; 0 writes compact JSON.
	Indent int
	// Concurrency bounds the classes derived at once; <= 0 means unbounded.
	Concurrency int
	// AllowPartial writes the collection schema even when classes failed.
	AllowPartial bool
	// Specials are merged over the built-in special property fragments.
	Specials map[string]*jsonschema.Schema
	// Parents overrides the inherit(...) convention.
	Parents hierarchy.ParentResolver
	// StaticDir, when set, is copied to the sink after the schemas.
	StaticDir string
}

// Generator derives schema documents for a batch of classes.
type Generator struct {
	opts     Options
	sink     storage.Sink
	docs     jsdoc.Source
	log      *zap.Logger
	parents  hierarchy.ParentResolver
	composer *compose.Composer
}

// New returns a Generator writing to sink. A nil docs uses the built-in
// JSDoc extractor; a nil logger discards logs.
func New(opts Options, sink storage.Sink, docs jsdoc.Source, logger *zap.Logger) *Generator {
	opts.Family = opts.Family.WithDefaults()
	if docs == nil {
		docs = jsdoc.Native{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	parents := opts.Parents
	if parents == nil {
		parents = hierarchy.NewInheritResolver(opts.Family)
	}
	return &Generator{
		opts:     opts,
		sink:     sink,
		docs:     docs,
		log:      logger,
		parents:  parents,
		composer: compose.New(opts.Family, resolve.New(opts.Specials)),
	}
}

// Report summarizes a run.
type Report struct {
	RunID string
	// Models are the classes whose documents were emitted, by name.
	Models []catalogschema.ClassModel
	// Written lists the documents stored successfully.
	Written []string
	// Failures holds per-class derivation, batch check and write failures.
	Failures catalogschema.Failures
	// CollectionWritten reports whether items.json was stored.
	CollectionWritten bool
}

type derived struct {
	model  catalogschema.ClassModel
	result compose.Result
}

// Run derives every file. Per-class failures never stop other classes; they
// are returned as catalogschema.Failures together with the report. The
// collection schema is written only when no class failed, unless
// AllowPartial is set.
func (g *Generator) Run(ctx context.Context, files []discover.File) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	log := g.log.With(zap.String("run_id", rep.RunID))

	var (
		mu       sync.Mutex
		results  []derived
		failures catalogschema.Failures
	)
	fail := func(f catalogschema.Failure) {
		log.Error("class failed",
			zap.String("class", f.Class),
			zap.String("file", f.File),
			zap.String("code", f.Code),
			zap.Error(f.Cause))
		mu.Lock()
		failures = append(failures, f)
		mu.Unlock()
	}

	var eg errgroup.Group
	if g.opts.Concurrency > 0 {
		eg.SetLimit(g.opts.Concurrency)
	}
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(catalogschema.NewFailure(f.Class, f.Path, err, catalogschema.CodeReadFailure))
				return nil
			}
			d, err := g.derive(ctx, f)
			if err != nil {
				fail(catalogschema.NewFailure(f.Class, f.Path, err, catalogschema.CodeReadFailure))
				return nil
			}
			mu.Lock()
			results = append(results, d)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].model.Name < results[j].model.Name })
	flagged := map[string]bool{}
	mu.Lock()
	prior := append(catalogschema.Failures(nil), failures...)
	mu.Unlock()
	for _, f := range g.check(results, prior) {
		fail(f)
		flagged[f.Class] = true
	}

	good := make([]derived, 0, len(results))
	for _, d := range results {
		if flagged[d.model.Name] {
			continue
		}
		good = append(good, d)
		rep.Models = append(rep.Models, d.model)
		if d.model.Concrete() {
			log.Info("class composed",
				zap.String("class", d.model.Name),
				zap.String("parent", d.model.ParentName),
				zap.String("type_id", d.model.TypeID),
				zap.Int("properties", d.result.Class.Properties.Len()))
		} else {
			log.Debug("abstract class composed",
				zap.String("class", d.model.Name),
				zap.String("parent", d.model.ParentName),
				zap.Int("properties", d.result.Class.Properties.Len()))
		}
	}

	docs := make(map[string]*jsonschema.Schema, 2*len(good)+1)
	for _, d := range good {
		docs[catalogschema.SchemaFile(d.model.Name)] = d.result.Class
		if d.result.Shell != nil {
			docs[catalogschema.ShellFile(d.model.Name)] = d.result.Shell
		}
	}
	mu.Lock()
	failed := len(failures) > 0
	mu.Unlock()
	if !failed || g.opts.AllowPartial {
		docs[catalogschema.CollectionFile] = union.Build(rep.Models, g.opts.Mode, g.opts.Family)
	} else {
		log.Warn("collection schema withheld", zap.Int("failures", len(failures)))
	}

	owner := func(name string) string {
		for _, d := range good {
			if name == catalogschema.SchemaFile(d.model.Name) || name == catalogschema.ShellFile(d.model.Name) {
				return d.model.Name
			}
		}
		return name
	}
	var weg errgroup.Group
	if g.opts.Concurrency > 0 {
		weg.SetLimit(g.opts.Concurrency)
	}
	for name, doc := range docs {
		weg.Go(func() error {
			if err := g.write(ctx, name, doc); err != nil {
				fail(catalogschema.NewFailure(owner(name), "", err, catalogschema.CodeWriteFailure))
				return nil
			}
			mu.Lock()
			rep.Written = append(rep.Written, name)
			if name == catalogschema.CollectionFile {
				rep.CollectionWritten = true
			}
			mu.Unlock()
			return nil
		})
	}
	_ = weg.Wait()
	sort.Strings(rep.Written)

	if g.opts.StaticDir != "" {
		if err := storage.CopyStatic(ctx, g.sink, g.opts.StaticDir); err != nil {
			fail(catalogschema.NewFailure(g.opts.StaticDir, g.opts.StaticDir, err, catalogschema.CodeWriteFailure))
		}
	}

	sort.SliceStable(failures, func(i, j int) bool {
		if failures[i].Class != failures[j].Class {
			return failures[i].Class < failures[j].Class
		}
		return failures[i].Code < failures[j].Code
	})
	rep.Failures = failures
	if len(failures) > 0 {
		return rep, failures
	}
	return rep, nil
}

func (g *Generator) write(ctx context.Context, name string, doc *jsonschema.Schema) error {
	data, err := storage.Encode(doc, g.opts.Indent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return g.sink.Write(ctx, name, data)
}

// derive builds the model of one class and composes its documents.
func (g *Generator) derive(ctx context.Context, f discover.File) (derived, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return derived{}, err
	}
	m, err := g.Model(ctx, f, src)
	if err != nil {
		return derived{}, err
	}
	res, err := g.composer.Compose(m)
	if err != nil {
		return derived{}, err
	}
	return derived{model: m, result: res}, nil
}

// Model recovers the ClassModel of one class from its source text.
func (g *Generator) Model(ctx context.Context, f discover.File, src []byte) (catalogschema.ClassModel, error) {
	lexed := jslex.Lex(string(src))
	h, err := hierarchy.Scan(g.parents, f.Class, f.Path, lexed)
	if err != nil {
		return catalogschema.ClassModel{}, err
	}
	recs, diag, err := g.docs.Records(ctx, f.Class, f.Path, src)
	if err != nil {
		if errors.Is(err, catalogschema.ErrInvalidDocumentation) {
			return catalogschema.ClassModel{}, err
		}
		return catalogschema.ClassModel{}, fmt.Errorf("documentation of %s: %w", f.Class, err)
	}
	if diag != nil && diag.HasWarnings() {
		for _, w := range diag.Warnings() {
			g.log.Warn("documentation warning", zap.String("class", f.Class), zap.String("warning", w))
		}
	}
	m := catalogschema.ClassModel{
		Name:           f.Class,
		File:           f.Path,
		ParentName:     h.Parent,
		InheritsAtLine: h.Line,
		OwnProperties:  docmodel.OwnProperties(recs, f.Class, h.Line),
		Class:          docmodel.ClassAnnotation(recs, f.Class),
	}
	if id, ok := jslex.GetterLiteral(lexed.Tokens, "type"); ok {
		m.TypeID = id
	}
	if name, ok := jslex.GetterLiteral(lexed.Tokens, catalogschema.BookkeepingProperty); ok {
		m.TypeName = name
	}
	return m, nil
}
