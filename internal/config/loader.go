package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for extpack configuration.
const envPrefix = "EXTPACK"

// Loader handles loading and merging configuration from multiple sources.
// Precedence, lowest first: defaults, user config, project config, env.
type Loader struct {
	v        *viper.Viper
	userFile string
	files    []string
}

// NewLoader creates a new configuration loader that merges the
// user-level config file under the project file.
func NewLoader() *Loader {
	v := viper.New()

	// Set up environment variable bindings
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// camelCase keys get snake case variables
	_ = v.BindEnv("sourceDir", "EXTPACK_SOURCE_DIR")
	_ = v.BindEnv("outputDir", "EXTPACK_OUTPUT_DIR")
	_ = v.BindEnv("localizedName", "EXTPACK_LOCALIZED_NAME")

	setDefaults(v)

	return &Loader{v: v, userFile: UserConfigFile()}
}

// WithUserConfig replaces the user-level config file. An empty path
// disables it.
func (l *Loader) WithUserConfig(path string) *Loader {
	l.userFile = path
	return l
}

// Files returns the config files read by the last Load, in merge order.
func (l *Loader) Files() []string {
	return l.files
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("name", d.Name)
	v.SetDefault("localizedName", d.LocalizedName)
	v.SetDefault("app", d.App)
	v.SetDefault("sourceDir", d.SourceDir)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("files", []string{})
	v.SetDefault("skipFiles", []string{})
	v.SetDefault("externsUrls", []string{})
	v.SetDefault("background.level", d.Background.Level)
	v.SetDefault("background.externs", d.Background.Externs)
	v.SetDefault("background.bundle", d.Background.Bundle)
	v.SetDefault("background.passthrough", d.Background.Passthrough)
	v.SetDefault("compiler.endpoint", d.Compiler.Endpoint)
	v.SetDefault("compiler.language", d.Compiler.Language)
	v.SetDefault("compiler.timeout", d.Compiler.Timeout)
	v.SetDefault("compiler.retries", d.Compiler.Retries)
	v.SetDefault("compiler.parallelism", d.Compiler.Parallelism)
	v.SetDefault("version", d.Version)
	v.SetDefault("log.file", d.Log.File)
}

// Load loads configuration from the given project file merged over the
// user-level file. Missing files are skipped; the result then carries
// defaults and environment values only.
func (l *Loader) Load(projectFile string) (*Config, error) {
	l.files = nil

	for _, file := range []string{l.userFile, projectFile} {
		if err := l.merge(file); err != nil {
			return nil, err
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) merge(file string) error {
	if file == "" {
		return nil
	}

	// Expand ~ in path
	expandedPath, err := ExpandPath(file)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := FileExists(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return nil
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")
	if err := l.v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", expandedPath, err)
	}
	l.files = append(l.files, expandedPath)
	return nil
}
