package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/cmdutil"
	"github.com/opmodel/extpack/internal/output"
)

// NewConfigViewCmd creates the config view command.
func NewConfigViewCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	var outputFlag string

	c := &cobra.Command{
		Use:   "view [source-dir]",
		Short: "Print the effective configuration",
		Long: `Print the configuration a build would use: defaults, the user config
file, the project file and EXTPACK_* environment variables merged in that
order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runView(c, g, sourceDir(args), outputFlag)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "yaml", "Output format: yaml, json")
	return c
}

func runView(c *cobra.Command, g *cmdtypes.GlobalConfig, src, format string) error {
	outputFormat, valid := output.ParseFormat(format)
	if !valid {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitGeneralError,
			Err:  fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(output.ValidFormats(), ", ")),
		}
	}

	pc, err := cmdutil.LoadProjectConfig(g, src)
	if err != nil {
		cmdutil.PrintValidationError("configuration invalid", err)
		return cmdtypes.NewExitError(err, true)
	}
	output.Debug("effective configuration", "files", pc.Files)

	var data []byte
	switch outputFormat {
	case output.FormatJSON:
		data, err = json.MarshalIndent(pc.Config, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(pc.Config)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	_, err = c.OutOrStdout().Write(data)
	return err
}
