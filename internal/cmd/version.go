package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/output"
	"github.com/opmodel/extpack/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show extpack version information.

Displays:
  - extpack version, commit, and build date
  - the git binary used to resolve release versions`,
		RunE: runVersion,
	}
}

func runVersion(_ *cobra.Command, _ []string) error {
	output.Println(version.FullVersionString(version.GetInfo(), version.DetectGit()))
	return nil
}
