package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/opmodel/extpack/internal/build"
	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/compiler"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/output"
	"github.com/opmodel/extpack/internal/version"
)

// RunBuildOpts holds the inputs for RunBuild.
type RunBuildOpts struct {
	// Args from the cobra command (first arg is the source directory).
	Args []string
	// Flags are the build command flags.
	Flags *BuildFlags
	// Global holds the root flags.
	Global *cmdtypes.GlobalConfig
	// Compiler replaces the HTTP client; nil builds one from config.
	Compiler compiler.Compiler
	// Out receives diagnostics and the manifest diff. Defaults to stdout.
	Out io.Writer
}

// RunBuild loads the configuration, resolves the version source and runs
// the build orchestrator.
//
// On failure it returns an *ExitError with the appropriate exit code and
// Printed flag.
func RunBuild(ctx context.Context, opts RunBuildOpts) (*build.Result, error) {
	sourceDir := ResolveSourceDir(opts.Args)
	flags := opts.Flags
	if flags == nil {
		flags = &BuildFlags{}
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	pc, err := LoadProjectConfig(opts.Global, sourceDir)
	if err != nil {
		PrintBuildError(err)
		return nil, cmdtypes.NewExitError(err, true)
	}
	SetupLogging(opts.Global, pc.Config)

	cfg, err := build.NewConfig(pc.Config, build.ConfigOptions{
		SourceDir:        sourceDir,
		OutputDir:        flags.OutDir,
		Debug:            flags.Debug,
		SkipCompile:      flags.SkipCompile,
		ShowManifestDiff: opts.Global.Verbose,
	})
	if err != nil {
		PrintBuildError(err)
		return nil, cmdtypes.NewExitError(err, true)
	}

	resolvedVersion := config.ResolveString(config.ResolveStringOptions{
		Key:         "version",
		FlagValue:   flags.Version,
		ConfigValue: pc.Config.Version,
	})
	config.LogResolvedValues([]config.ResolvedValue{resolvedVersion})

	var resolver version.Resolver = &version.GitResolver{Dir: cfg.SourceDir}
	if v, ok := resolvedVersion.Value.(string); ok && v != "" {
		resolver = version.StaticResolver(v)
	}

	c := opts.Compiler
	if c == nil {
		client, err := NewCompilerClient(pc.Config, cfg.SourceDir)
		if err != nil {
			PrintBuildError(err)
			return nil, cmdtypes.NewExitError(err, true)
		}
		output.Debug("using compiler", "endpoint", client.Endpoint())
		c = client
	}

	orch := build.NewOrchestrator(cfg, c, resolver, build.WithOutput(out))
	result, err := orch.Run(ctx)
	if err != nil {
		PrintBuildError(err)
		return result, cmdtypes.NewExitError(err, true)
	}

	WriteBuildSummary(result)
	return result, nil
}

// NewCompilerClient builds the HTTP compiler client from configuration.
func NewCompilerClient(cfg *config.Config, root string) (*compiler.Client, error) {
	timeout := compiler.DefaultTimeout
	if cfg.Compiler.Timeout != "" {
		d, err := time.ParseDuration(cfg.Compiler.Timeout)
		if err != nil || d <= 0 {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("invalid duration %q", cfg.Compiler.Timeout),
				"compiler.timeout",
				"Use a Go duration such as 30s or 2m.",
			)
		}
		timeout = d
	}

	// an explicit zero disables retries
	retries := cfg.Compiler.Retries
	if retries == 0 {
		retries = -1
	}

	return compiler.NewClient(compiler.ClientOptions{
		Endpoint: cfg.Compiler.Endpoint,
		Root:     root,
		Timeout:  timeout,
		Retries:  retries,
	}), nil
}
