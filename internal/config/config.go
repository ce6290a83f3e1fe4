// Package config loads the run configuration: defaults, then an optional YAML
// file, then .env and CATALOGSCHEMA_* environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/discover"
	"github.com/reoring/catalogschema/internal/storage"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CATALOGSCHEMA_"

// Config is the explicit run configuration handed to each component.
type Config struct {
	// Source is the root of the TerriaJS checkout.
	Source string `yaml:"source" json:"source,omitempty" jsonschema:"description=Root of the source tree"`
	// ModelsDir is relative to Source.
	ModelsDir  string   `yaml:"models_dir" json:"models_dir,omitempty" jsonschema:"default=lib/Models"`
	SourceGlob []string `yaml:"source_glob" json:"source_glob,omitempty" jsonschema:"description=Glob patterns used instead of models_dir"`
	// DocsDir holds jsdoc-parse output named <Class>.json; empty uses the
	// built-in extractor.
	DocsDir       string `yaml:"docs_dir" json:"docs_dir,omitempty"`
	Dest          string `yaml:"dest" json:"dest,omitempty" jsonschema:"description=Output directory"`
	VersionSubdir bool   `yaml:"version_subdir" json:"version_subdir,omitempty" jsonschema:"description=Write below a directory named after package.json version"`
	StaticDir     string `yaml:"static_dir" json:"static_dir,omitempty"`
	Minify        bool   `yaml:"minify" json:"minify,omitempty"`
	Mode          string `yaml:"mode" json:"mode,omitempty" jsonschema:"enum=validation,enum=editor,default=validation"`

	Quiet   bool      `yaml:"quiet" json:"quiet,omitempty"`
	Verbose bool      `yaml:"verbose" json:"verbose,omitempty"`
	Log     LogConfig `yaml:"log" json:"log,omitempty"`

	Concurrency  int  `yaml:"concurrency" json:"concurrency,omitempty" jsonschema:"minimum=0"`
	AllowPartial bool `yaml:"allow_partial" json:"allow_partial,omitempty" jsonschema:"description=Write items.json even when some classes failed"`

	Include string   `yaml:"include" json:"include,omitempty"`
	Exclude []string `yaml:"exclude" json:"exclude,omitempty"`

	Family            catalogschema.Family `yaml:"family" json:"family,omitempty"`
	SpecialProperties map[string]any       `yaml:"special_properties" json:"special_properties,omitempty" jsonschema:"description=Schema fragments merged over properties of the same name"`

	S3 storage.S3Config `yaml:"s3" json:"s3,omitempty"`
}

// LogConfig selects the log encoding.
type LogConfig struct {
	Format string `yaml:"format" json:"format,omitempty" jsonschema:"enum=console,enum=json"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		ModelsDir:     filepath.Join("lib", "Models"),
		VersionSubdir: true,
		Mode:          catalogschema.ModeValidation.String(),
		Log:           LogConfig{Format: "console"},
		Concurrency:   runtime.NumCPU(),
		Include:       discover.DefaultInclude,
		Exclude:       append([]string(nil), discover.DefaultExclude...),
		Family:        catalogschema.DefaultFamily,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), the .env file of the working directory and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.Merge(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays a YAML document on cfg. Unknown keys are rejected.
func (c *Config) Merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	c.SpecialProperties = yamlAnyToStringMap(c.SpecialProperties)
	c.Family = c.Family.WithDefaults()
	return nil
}

// ApplyEnv overlays CATALOGSCHEMA_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	str("SOURCE", &c.Source)
	str("MODELS_DIR", &c.ModelsDir)
	str("DOCS_DIR", &c.DocsDir)
	str("DEST", &c.Dest)
	str("STATIC_DIR", &c.StaticDir)
	str("MODE", &c.Mode)
	str("LOG_FORMAT", &c.Log.Format)
	str("INCLUDE", &c.Include)
	boolean("VERSION_SUBDIR", &c.VersionSubdir)
	boolean("MINIFY", &c.Minify)
	boolean("QUIET", &c.Quiet)
	boolean("VERBOSE", &c.Verbose)
	boolean("ALLOW_PARTIAL", &c.AllowPartial)
	if v, ok := lookup(EnvPrefix + "CONCURRENCY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err))
		} else {
			c.Concurrency = n
		}
	}
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("S3_REGION", &c.S3.Region)
	str("S3_ACCESS_KEY", &c.S3.AccessKey)
	str("S3_SECRET_KEY", &c.S3.SecretKey)
	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_PREFIX", &c.S3.Prefix)
	boolean("S3_USE_SSL", &c.S3.UseSSL)
	return errors.Join(errs...)
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Source) == "" && len(c.SourceGlob) == 0 {
		errs = append(errs, errors.New("source is required"))
	}
	if strings.TrimSpace(c.Dest) == "" && !c.S3.Enabled() {
		errs = append(errs, errors.New("dest (or s3.endpoint) is required"))
	}
	if _, err := catalogschema.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := regexp.Compile(c.Include); err != nil {
		errs = append(errs, fmt.Errorf("include: %w", err))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Quiet && c.Verbose {
		errs = append(errs, errors.New("quiet and verbose are mutually exclusive"))
	}
	if _, err := c.SpecialFragments(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OutputMode returns the parsed mode; call Validate first.
func (c *Config) OutputMode() catalogschema.Mode {
	m, _ := catalogschema.ParseMode(c.Mode)
	return m
}

// Indent is the output indentation: 0 when minified, 2 otherwise.
func (c *Config) Indent() int {
	if c.Minify {
		return 0
	}
	return 2
}

// ModelsPath is the directory listed for class files.
func (c *Config) ModelsPath() string {
	if filepath.IsAbs(c.ModelsDir) {
		return c.ModelsDir
	}
	return filepath.Join(c.Source, c.ModelsDir)
}
