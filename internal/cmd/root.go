// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmd/config"
	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/cmdutil"
	"github.com/opmodel/extpack/internal/output"
)

// NewRootCmd creates the root command for the extpack CLI.
func NewRootCmd() *cobra.Command {
	var (
		g              cmdtypes.GlobalConfig
		timestampsFlag bool
	)

	rootCmd := &cobra.Command{
		Use:   "extpack",
		Short: "Browser extension packager",
		Long: `extpack copies a browser extension's sources into a versioned build
directory, rewrites its manifest, compiles background and page scripts with
the Closure Compiler service and zips the result for upload.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			// Timestamps: flag only when explicitly set, so config can win otherwise
			g.Timestamps = nil
			if c.Flags().Changed("timestamps") {
				g.Timestamps = output.BoolPtr(timestampsFlag)
			}
			cmdutil.SetupLogging(&g, nil)
			output.Debug("initializing CLI", "config", g.ConfigFlag, "verbose", g.Verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.ConfigFlag, "config", "", "Path to config file (env: EXTPACK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Enable verbose output and the manifest diff")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBuildCmd(&g))
	rootCmd.AddCommand(config.NewConfigCmd(&g))
	rootCmd.AddCommand(NewVersionCmd(&g))

	return rootCmd
}
