package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/cmdutil"
)

// NewBuildCmd creates the build command.
func NewBuildCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	var bf cmdutil.BuildFlags

	c := &cobra.Command{
		Use:   "build [source-dir]",
		Short: "Build and package the extension",
		Long: `Build a browser extension into <outputDir>/<name>-<version>[-dbg] and
archive it as a zip next to the directory.

Stages run in order: clean, static-copy, manifest, background-compile,
pages-compile, archive. Compile stages are skipped when their level is
"none" or --skip-compile is given.

The release version comes from --version, the version key in extpack.yaml
or "git describe --tags" in the source directory, in that order.

Arguments:
  source-dir    Extension source directory (default: sourceDir from config or current directory)

Examples:
  # Release build of the extension in the current directory
  extpack build

  # Debug build with pretty printed bundles
  extpack build ./extension -d

  # Pin the version and write to another directory
  extpack build ./extension --version 1.4.2 --out-dir ./dist

  # Package without compiling, showing the manifest diff
  extpack build --skip-compile -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := cmdutil.RunBuild(c.Context(), cmdutil.RunBuildOpts{
				Args:   args,
				Flags:  &bf,
				Global: g,
				Out:    c.OutOrStdout(),
			})
			return err
		},
	}

	bf.AddTo(c)
	return c
}
