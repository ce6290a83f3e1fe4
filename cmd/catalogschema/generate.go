package main

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/generator"
	"github.com/reoring/catalogschema/internal/config"
	"github.com/reoring/catalogschema/internal/discover"
	"github.com/reoring/catalogschema/internal/jsdoc"
	"github.com/reoring/catalogschema/internal/logging"
	"github.com/reoring/catalogschema/internal/storage"
)

type generateFlags struct {
	configPath      string
	source          string
	dest            string
	sourceGlob      []string
	docsDir         string
	staticDir       string
	mode            string
	editor          bool
	minify          bool
	quiet           bool
	verbose         bool
	logFormat       string
	noVersionSubdir bool
	concurrency     int
	allowPartial    bool
}

func newGenerateCommand() *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one schema per class, a shell per concrete class and items.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fl.StringVar(&f.source, "source", "", "root of the TerriaJS source tree")
	fl.StringVar(&f.dest, "dest", "", "output directory")
	fl.StringSliceVar(&f.sourceGlob, "source-glob", nil, "glob of model files, instead of <source>/lib/Models")
	fl.StringVar(&f.docsDir, "docs-dir", "", "directory of jsdoc-parse output named <Class>.json")
	fl.StringVar(&f.staticDir, "static-dir", "", "directory of files copied next to the schemas")
	fl.StringVar(&f.mode, "mode", "", "collection schema mode: validation or editor")
	fl.BoolVar(&f.editor, "editor", false, "shorthand for --mode editor")
	fl.BoolVar(&f.minify, "minify", false, "write compact JSON")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "log warnings and errors only")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	fl.StringVar(&f.logFormat, "log-format", "", "console or json")
	fl.BoolVar(&f.noVersionSubdir, "no-version-subdir", false, "write directly into dest instead of dest/<version>")
	fl.IntVar(&f.concurrency, "concurrency", 0, "classes derived at once (0 keeps the configured value)")
	fl.BoolVar(&f.allowPartial, "allow-partial", false, "write items.json even when classes failed")
	return cmd
}

// load merges flags the user set over the file and environment configuration.
func (f *generateFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	set := cmd.Flags().Changed
	if set("source") {
		cfg.Source = f.source
	}
	if set("dest") {
		cfg.Dest = f.dest
	}
	if set("source-glob") {
		cfg.SourceGlob = f.sourceGlob
	}
	if set("docs-dir") {
		cfg.DocsDir = f.docsDir
	}
	if set("static-dir") {
		cfg.StaticDir = f.staticDir
	}
	if set("mode") {
		cfg.Mode = f.mode
	}
	if f.editor {
		cfg.Mode = catalogschema.ModeEditor.String()
	}
	if set("minify") {
		cfg.Minify = f.minify
	}
	if set("quiet") {
		cfg.Quiet = f.quiet
	}
	if set("verbose") {
		cfg.Verbose = f.verbose
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.noVersionSubdir {
		cfg.VersionSubdir = false
	}
	if set("concurrency") && f.concurrency > 0 {
		cfg.Concurrency = f.concurrency
	}
	if set("allow-partial") {
		cfg.AllowPartial = f.allowPartial
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(logging.Options{Format: cfg.Log.Format, Quiet: cfg.Quiet, Verbose: cfg.Verbose})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sink, where, err := openSink(cfg)
	if err != nil {
		return err
	}
	logger.Info("writing schemas", zap.String("dest", where), zap.String("mode", cfg.Mode))

	files, err := discover.Files(discover.Options{
		Dir:     cfg.ModelsPath(),
		Globs:   cfg.SourceGlob,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("list model files: %w", err)
	}
	specials, err := cfg.SpecialFragments()
	if err != nil {
		return err
	}
	var docs jsdoc.Source = jsdoc.Native{}
	if cfg.DocsDir != "" {
		docs = jsdoc.Dir{Path: cfg.DocsDir, Fallback: jsdoc.Native{}}
	}

	g := generator.New(generator.Options{
		Family:       cfg.Family,
		Mode:         cfg.OutputMode(),
		Indent:       cfg.Indent(),
		Concurrency:  cfg.Concurrency,
		AllowPartial: cfg.AllowPartial,
		Specials:     specials,
		StaticDir:    cfg.StaticDir,
	}, sink, docs, logger)

	rep, err := g.Run(cmd.Context(), files)
	logger.Info("run finished",
		zap.String("run_id", rep.RunID),
		zap.Int("classes", len(files)),
		zap.Int("emitted", len(rep.Models)),
		zap.Int("documents", len(rep.Written)),
		zap.Bool("collection", rep.CollectionWritten))
	if fs, ok := catalogschema.AsFailures(err); ok {
		return fmt.Errorf("%d failure(s): %w", len(fs), fs)
	}
	return err
}

// openSink returns the destination, placing documents below the source
// version when configured.
func openSink(cfg *config.Config) (storage.Sink, string, error) {
	version := ""
	if cfg.VersionSubdir && cfg.Source != "" {
		v, err := discover.Version(cfg.Source)
		if err != nil {
			return nil, "", fmt.Errorf("couldn't access TerriaJS at %s: %w", cfg.Source, err)
		}
		version = v
	}
	if cfg.S3.Enabled() {
		s3cfg := cfg.S3
		if version != "" {
			s3cfg.Prefix = path.Join(s3cfg.Prefix, version)
		}
		s, err := storage.NewS3(s3cfg)
		if err != nil {
			return nil, "", err
		}
		return s, "s3://" + path.Join(s3cfg.Bucket, s3cfg.Prefix), nil
	}
	dest := cfg.Dest
	if version != "" {
		dest = filepath.Join(dest, version)
	}
	return storage.NewFS(dest), dest, nil
}
