package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet [source-dir]",
		Short: "Validate the project configuration file",
		Long: `Validate extpack.yaml against the configuration schema.

Unknown keys, out-of-range values, invalid compilation levels and bundles
written by more than one unit are reported. The file is taken from
--config, EXTPACK_CONFIG or the source directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runVet(c, g, sourceDir(args))
		},
	}
}

func runVet(c *cobra.Command, g *cmdtypes.GlobalConfig, src string) error {
	resolved := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: g.ConfigFlag,
		SourceDir: src,
	})
	path, _ := resolved.Value.(string)

	expandedPath, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.FileExists(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitNotFound,
			Err:  fmt.Errorf("config file not found: %s", expandedPath),
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	if err := validator.ValidateFile(expandedPath); err != nil {
		if validationErrs, ok := err.(config.ValidationErrors); ok {
			fmt.Fprintln(c.ErrOrStderr(), "Error: config validation failed")
			fmt.Fprintf(c.ErrOrStderr(), "  File: %s\n\n", expandedPath)
			for _, e := range validationErrs {
				fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
			}
			return cmdtypes.NewExitError(err, true)
		}
		return &cmdtypes.ExitError{Code: oerrors.ExitCodeFromError(err), Err: fmt.Errorf("validating config: %w", err)}
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file is valid: %s\n", expandedPath)
	return nil
}
