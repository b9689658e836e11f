// Package cmdutil provides shared command utilities.
// It centralizes flag groups, config loading and build orchestration so
// the cobra commands stay thin.
package cmdutil

import (
	"github.com/spf13/cobra"
)

// BuildFlags holds the flags of the build command.
type BuildFlags struct {
	Debug       bool
	OutDir      string
	Version     string
	SkipCompile bool
}

// AddTo registers the build flags on the given cobra command.
func (f *BuildFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.Debug, "debug", "d", false,
		"Debug build: DEBUG=true, pretty printed output, -dbg suffix")
	cmd.Flags().StringVar(&f.OutDir, "out-dir", "",
		"Output directory (default: outputDir from config)")
	cmd.Flags().StringVar(&f.Version, "version", "",
		"Release version (default: from git describe)")
	cmd.Flags().BoolVar(&f.SkipCompile, "skip-compile", false,
		"Copy and package without calling the compiler")
}

// ResolveSourceDir returns the source directory from command args. Empty
// means the configured sourceDir or, failing that, the current directory.
func ResolveSourceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
