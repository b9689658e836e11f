package config

import (
	"os"
	"path/filepath"

	"github.com/opmodel/extpack/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "EXTPACK_CONFIG"

// ResolveStringOptions contains the candidates for one string setting.
type ResolveStringOptions struct {
	// Key is the config key, used for logging.
	Key string
	// FlagValue is the command-line value (empty if not set).
	FlagValue string
	// EnvVar is the environment variable consulted after the flag.
	EnvVar string
	// ConfigValue is the value from the config file (empty if not set).
	ConfigValue string
	// DefaultValue applies when nothing else is set.
	DefaultValue string
}

// ResolveString resolves a string setting using precedence:
// (1) flag, (2) environment, (3) config file, (4) default.
func ResolveString(opts ResolveStringOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]any),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.DefaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
	// SourceDir is the directory searched for extpack.yaml.
	SourceDir string
}

// ResolveConfigPath resolves the project config file path using precedence:
// (1) --config flag, (2) EXTPACK_CONFIG env, (3) <source-dir>/extpack.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) ResolvedValue {
	return ResolveString(ResolveStringOptions{
		Key:          "config",
		FlagValue:    opts.FlagValue,
		EnvVar:       EnvConfig,
		DefaultValue: filepath.Join(opts.SourceDir, ProjectFileName),
	})
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
