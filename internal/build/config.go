package build

import (
	"fmt"
	"path/filepath"

	"github.com/opmodel/extpack/internal/compiler"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/page"
)

// UnitConfig configures the background unit.
type UnitConfig struct {
	Level       compiler.Level
	Externs     string
	Bundle      string
	Passthrough []string
}

// PageConfig configures one page unit.
type PageConfig struct {
	HTML    string
	Bundle  string
	Level   compiler.Level
	Externs string
}

// Config is the build configuration for one invocation. It is a value:
// NewConfig copies every slice, so a debug and a release build can be
// configured from the same file and run side by side.
type Config struct {
	// SourceDir and OutputDir are absolute.
	SourceDir string
	OutputDir string

	// Name is the display name; empty means use the manifest name.
	Name          string
	LocalizedName bool
	App           bool

	// Debug injects DEBUG=true, pretty prints and suffixes the directory.
	Debug bool

	Manifest    string
	Files       []string
	SkipFiles   []string
	ExternsURLs []string
	Language    string

	Background UnitConfig
	Pages      []PageConfig
	Markers    page.Markers

	// Parallelism bounds concurrent compile submissions.
	Parallelism int

	// ShowManifestDiff prints the manifest changes after rewriting.
	ShowManifestDiff bool
}

// ConfigOptions are the per-invocation overrides applied over the file.
type ConfigOptions struct {
	// SourceDir is the source tree; falls back to the file's sourceDir,
	// then the working directory.
	SourceDir string

	// OutputDir overrides the file's outputDir.
	OutputDir string

	Debug bool

	// SkipCompile disables every compile stage.
	SkipCompile bool

	ShowManifestDiff bool
}

// NewConfig derives the build configuration from a loaded config file.
func NewConfig(cfg *config.Config, opts ConfigOptions) (Config, error) {
	src := opts.SourceDir
	if src == "" {
		src = cfg.SourceDir
	}
	if src == "" {
		src = "."
	}
	srcAbs, err := config.ResolvePath(".", src)
	if err != nil {
		return Config{}, fmt.Errorf("resolving source dir: %w", err)
	}

	out := opts.OutputDir
	if out == "" {
		out = cfg.OutputDir
	}
	if out == "" {
		out = config.DefaultOutputDir
	}
	outAbs, err := config.ResolvePath(srcAbs, out)
	if err != nil {
		return Config{}, fmt.Errorf("resolving output dir: %w", err)
	}

	manifestPath := cfg.Manifest
	if manifestPath == "" {
		manifestPath = config.DefaultManifest
	}

	language := cfg.Compiler.Language
	if language == "" {
		language = compiler.DefaultLanguage
	}

	parallelism := cfg.Compiler.Parallelism
	if parallelism < 1 {
		parallelism = config.DefaultParallelism
	}

	bgLevel, err := parseLevel("background.level", cfg.Background.Level, opts.SkipCompile)
	if err != nil {
		return Config{}, err
	}
	bgBundle := cfg.Background.Bundle
	if bgBundle == "" {
		bgBundle = config.DefaultBackgroundBundle
	}

	pages := make([]PageConfig, 0, len(cfg.Pages))
	for i, p := range cfg.Pages {
		level, err := parseLevel(fmt.Sprintf("pages.%d.level", i), p.Level, opts.SkipCompile)
		if err != nil {
			return Config{}, err
		}
		pages = append(pages, PageConfig{
			HTML:    p.HTML,
			Bundle:  p.PageBundle(),
			Level:   level,
			Externs: p.Externs,
		})
	}

	return Config{
		SourceDir:     srcAbs,
		OutputDir:     outAbs,
		Name:          cfg.Name,
		LocalizedName: cfg.LocalizedName,
		App:           cfg.App,
		Debug:         opts.Debug,
		Manifest:      manifestPath,
		Files:         clone(cfg.Files),
		SkipFiles:     clone(cfg.SkipFiles),
		ExternsURLs:   clone(cfg.ExternsURLs),
		Language:      language,
		Background: UnitConfig{
			Level:       bgLevel,
			Externs:     cfg.Background.Externs,
			Bundle:      bgBundle,
			Passthrough: clone(cfg.Background.Passthrough),
		},
		Pages:            pages,
		Markers:          page.DefaultMarkers(),
		Parallelism:      parallelism,
		ShowManifestDiff: opts.ShowManifestDiff,
	}, nil
}

func parseLevel(field, value string, skip bool) (compiler.Level, error) {
	level, err := compiler.ParseLevel(value)
	if err != nil {
		return compiler.LevelNone, oerrors.NewValidationError(err.Error(), field,
			"Use none, whitespace, simple or advanced.")
	}
	if skip {
		return compiler.LevelNone, nil
	}
	return level, nil
}

// unitOptions returns the compile options shared by every unit.
func (c Config) unitOptions(level compiler.Level, externs string) compiler.Options {
	return compiler.Options{
		Level:       level,
		Language:    c.Language,
		Debug:       c.Debug,
		Externs:     externs,
		ExternsURLs: clone(c.ExternsURLs),
		SkipFiles:   clone(c.SkipFiles),
	}
}

func (c Config) sourcePath(rel string) string {
	return filepath.Join(c.SourceDir, filepath.FromSlash(rel))
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
