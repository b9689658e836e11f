package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/manifest"
	"github.com/opmodel/extpack/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		force bool
		name  string
	)

	c := &cobra.Command{
		Use:   "init [source-dir]",
		Short: "Create an extpack.yaml for an extension",
		Long: `Create a commented extpack.yaml in the extension source directory.

The file list is seeded from the files found in the source directory and
every top-level HTML file becomes a page. The display name defaults to the
manifest name when it is a literal. Use --config to write elsewhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInit(c, g, sourceDir(args), name, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	c.Flags().StringVar(&name, "name", "", "Display name (default: manifest name)")

	return c
}

func runInit(c *cobra.Command, g *cmdtypes.GlobalConfig, src, name string, force bool) error {
	target := g.ConfigFlag
	if target == "" {
		target = filepath.Join(src, config.ProjectFileName)
	}
	expandedPath, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.FileExists(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitGeneralError,
			Err:  fmt.Errorf("config file already exists at %s (use --force to overwrite)", expandedPath),
		}
	}

	opts, err := scanSource(src, expandedPath)
	if err != nil {
		return err
	}
	if name != "" {
		opts.Name = name
	}

	data, err := config.RenderTemplate(opts)
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(expandedPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("Config file created: %s", expandedPath)))
	output.Debug("seeded config", "files", len(opts.Files), "pages", len(opts.Pages))
	fmt.Fprintln(c.OutOrStdout(), "Review files and pages, then run 'extpack build'.")
	return nil
}

// scanSource seeds the template from the source tree. Hidden entries, the
// default output directory, the manifest and the config file itself are
// left out.
func scanSource(src, configPath string) (config.TemplateOptions, error) {
	var opts config.TemplateOptions

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return opts, oerrors.NewNotFoundError("source directory not found", src, "")
	}

	if doc, err := manifest.Load(filepath.Join(src, config.DefaultManifest)); err == nil {
		if n := doc.Name(); !strings.HasPrefix(n, "__MSG_") {
			opts.Name = n
		}
	} else {
		output.Debug("no readable manifest", "error", err)
	}

	configAbs, _ := filepath.Abs(configPath)
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(d.Name(), ".") || (d.IsDir() && rel == config.DefaultOutputDir) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || rel == config.DefaultManifest {
			return nil
		}
		if abs, _ := filepath.Abs(p); abs == configAbs {
			return nil
		}

		opts.Files = append(opts.Files, rel)
		if !strings.Contains(rel, "/") && isHTML(rel) {
			opts.Pages = append(opts.Pages, rel)
		}
		return nil
	})
	if err != nil {
		return opts, fmt.Errorf("scanning %s: %w", src, err)
	}

	sort.Strings(opts.Files)
	sort.Strings(opts.Pages)
	return opts, nil
}

func isHTML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}
