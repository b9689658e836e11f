// Package config provides configuration loading and management.
package config

import (
	"github.com/opmodel/extpack/internal/compiler"
)

// ProjectFileName is the config file looked up in the source directory.
const ProjectFileName = "extpack.yaml"

// BackgroundConfig describes the background script unit.
type BackgroundConfig struct {
	// Level is the compilation level. Empty or "none" disables compilation.
	Level string `json:"level,omitempty" mapstructure:"level"`

	// Externs is an optional local externs file, relative to the source dir.
	Externs string `json:"externs,omitempty" mapstructure:"externs"`

	// Bundle is the output path of the compiled background script.
	// Default: js/background.js
	Bundle string `json:"bundle,omitempty" mapstructure:"bundle"`

	// Passthrough lists manifest scripts that are kept as-is instead of
	// being compiled. Entries match a full path, a base name, or a
	// directory prefix ending in "/".
	Passthrough []string `json:"passthrough,omitempty" mapstructure:"passthrough"`
}

// PageConfig describes one HTML page whose include region is compiled.
type PageConfig struct {
	// HTML is the page path relative to the source dir.
	HTML string `json:"html" mapstructure:"html"`

	// Bundle is the output path of the compiled script. Default: js/all.js
	Bundle string `json:"bundle,omitempty" mapstructure:"bundle"`

	// Level is the compilation level. Empty or "none" disables compilation.
	Level string `json:"level,omitempty" mapstructure:"level"`

	// Externs is an optional local externs file, relative to the source dir.
	Externs string `json:"externs,omitempty" mapstructure:"externs"`
}

// CompilerConfig contains settings for the remote compilation service.
type CompilerConfig struct {
	// Endpoint is the compile URL.
	// Env: EXTPACK_COMPILER_ENDPOINT
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`

	// Language is the input language mode.
	Language string `json:"language,omitempty" mapstructure:"language"`

	// Timeout bounds each request, as a Go duration string.
	Timeout string `json:"timeout,omitempty" mapstructure:"timeout"`

	// Retries is the number of retries for transient failures.
	Retries int `json:"retries,omitempty" mapstructure:"retries"`

	// Parallelism bounds concurrent submissions.
	Parallelism int `json:"parallelism,omitempty" mapstructure:"parallelism"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps"`

	// File mirrors log output to a rotated file.
	File string `json:"file,omitempty" mapstructure:"file"`
}

// Config represents the extpack configuration.
// Loaded from extpack.yaml, validated against the embedded CUE schema.
type Config struct {
	// Name is the display name and the output directory prefix.
	// Falls back to the manifest name when empty.
	Name string `json:"name,omitempty" mapstructure:"name"`

	// LocalizedName writes the localized message key into the manifest
	// instead of Name.
	LocalizedName bool `json:"localizedName,omitempty" mapstructure:"localizedName"`

	// App forces the hosted app layout even if the manifest has no app key.
	App bool `json:"app,omitempty" mapstructure:"app"`

	// SourceDir is the extension source tree.
	SourceDir string `json:"sourceDir,omitempty" mapstructure:"sourceDir"`

	// OutputDir receives the build directory and archive.
	// Relative paths resolve against SourceDir.
	OutputDir string `json:"outputDir,omitempty" mapstructure:"outputDir"`

	// Manifest is the manifest path relative to SourceDir.
	Manifest string `json:"manifest,omitempty" mapstructure:"manifest"`

	// Files are copied verbatim into the build directory.
	Files []string `json:"files,omitempty" mapstructure:"files"`

	// SkipFiles are excluded from compilation by base name.
	SkipFiles []string `json:"skipFiles,omitempty" mapstructure:"skipFiles"`

	// ExternsURLs are passed to the compiler for every unit.
	ExternsURLs []string `json:"externsUrls,omitempty" mapstructure:"externsUrls"`

	// Background configures the background unit.
	Background BackgroundConfig `json:"background,omitempty" mapstructure:"background"`

	// Pages configures page units.
	Pages []PageConfig `json:"pages,omitempty" mapstructure:"pages"`

	// Compiler configures the remote compilation service.
	Compiler CompilerConfig `json:"compiler,omitempty" mapstructure:"compiler"`

	// Version pins the release version instead of asking git.
	// Env: EXTPACK_VERSION
	Version string `json:"version,omitempty" mapstructure:"version"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" mapstructure:"log"`
}

// Default values applied by the loader.
const (
	DefaultOutputDir        = "build"
	DefaultManifest         = "manifest.json"
	DefaultBackgroundBundle = "js/background.js"
	DefaultPageBundle       = "js/all.js"
	DefaultTimeout          = "60s"
	DefaultParallelism      = 1
)

// DefaultConfig returns a Config with all default values populated.
// Used by `extpack config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: DefaultOutputDir,
		Manifest:  DefaultManifest,
		Background: BackgroundConfig{
			Bundle:      DefaultBackgroundBundle,
			Passthrough: []string{"lib/"},
		},
		Compiler: CompilerConfig{
			Endpoint:    compiler.DefaultEndpoint,
			Language:    compiler.DefaultLanguage,
			Timeout:     DefaultTimeout,
			Retries:     compiler.DefaultRetries,
			Parallelism: DefaultParallelism,
		},
	}
}

// PageBundle returns the page's bundle path, defaulted.
func (p PageConfig) PageBundle() string {
	if p.Bundle == "" {
		return DefaultPageBundle
	}
	return p.Bundle
}

// ResolvedValue records where an effective config value came from.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}
