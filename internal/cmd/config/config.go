// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Project configuration management",
		Long:  `Create, inspect and validate the extpack.yaml project configuration.`,
	}

	c.AddCommand(NewConfigInitCmd(g))
	c.AddCommand(NewConfigViewCmd(g))
	c.AddCommand(NewConfigVetCmd(g))

	return c
}

// sourceDir returns the source directory argument or the current directory.
func sourceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
