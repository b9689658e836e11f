package cmdutil

import (
	"errors"
	"fmt"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/output"
)

// ProjectConfig is a loaded and validated project configuration.
type ProjectConfig struct {
	// Config is the effective configuration.
	Config *config.Config

	// Path is the resolved project file; it may not exist.
	Path ResolvedPath

	// Files are the config files actually read, in merge order.
	Files []string
}

// ResolvedPath is a config path and where it came from.
type ResolvedPath struct {
	Value  string
	Source config.ConfigSource
}

// LoadProjectConfig resolves, loads and validates the configuration for a
// source directory. An explicitly requested file must exist.
func LoadProjectConfig(g *cmdtypes.GlobalConfig, sourceDir string) (*ProjectConfig, error) {
	resolved := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: g.ConfigFlag,
		SourceDir: sourceDir,
	})
	path, _ := resolved.Value.(string)
	config.LogResolvedValues([]config.ResolvedValue{resolved})

	exists, err := config.FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("checking config file: %w", err)
	}
	if !exists && resolved.Source != config.SourceDefault {
		return nil, oerrors.NewNotFoundError("configuration file not found", path,
			"Run 'extpack config init' to create one.")
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, &oerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: path,
			Cause:    oerrors.ErrValidation,
		}
	}
	output.Debug("configuration loaded", "files", loader.Files())

	validator, err := config.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return &ProjectConfig{
		Config: cfg,
		Path:   ResolvedPath{Value: path, Source: resolved.Source},
		Files:  loader.Files(),
	}, nil
}

// SetupLogging configures logging from the global flags and, when given,
// the loaded configuration. Flags win over config values.
func SetupLogging(g *cmdtypes.GlobalConfig, cfg *config.Config) {
	logCfg := output.LogConfig{Verbose: g.Verbose}

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	switch {
	case g.Timestamps != nil:
		logCfg.Timestamps = g.Timestamps
	case cfg != nil && cfg.Log.Timestamps != nil:
		logCfg.Timestamps = cfg.Log.Timestamps
	}

	if cfg != nil && cfg.Log.File != "" {
		if file, err := config.ExpandPath(cfg.Log.File); err == nil {
			logCfg.File = file
		}
	}

	output.SetupLogging(logCfg)
}

// PrintValidationError prints config validation errors one per line.
// Other errors are logged as is.
func PrintValidationError(msg string, err error) {
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) {
		output.Error(msg)
		for _, e := range verrs {
			output.Details(fmt.Sprintf("  %s: %s", e.Field, e.Message))
		}
		return
	}
	output.Error(msg, "error", err)
}
