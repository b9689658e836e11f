package cmdutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/testutil"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("project file in source dir", func(t *testing.T) {
		dir := testutil.CopyFixture(t, "password-generator")

		pc, err := LoadProjectConfig(&cmdtypes.GlobalConfig{}, dir)
		require.NoError(t, err)

		assert.Equal(t, "Password Generator", pc.Config.Name)
		assert.Equal(t, filepath.Join(dir, config.ProjectFileName), pc.Path.Value)
		assert.Equal(t, config.SourceDefault, pc.Path.Source)
		assert.Contains(t, pc.Files, pc.Path.Value)
	})

	t.Run("no project file uses defaults", func(t *testing.T) {
		dir := t.TempDir()

		pc, err := LoadProjectConfig(&cmdtypes.GlobalConfig{}, dir)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultOutputDir, pc.Config.OutputDir)
		assert.NotContains(t, pc.Files, pc.Path.Value)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		dir := t.TempDir()

		_, err := LoadProjectConfig(&cmdtypes.GlobalConfig{ConfigFlag: filepath.Join(dir, "nope.yaml")}, dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrNotFound)
	})

	t.Run("env var selects file", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "custom.yaml", "name: From Env\n")
		t.Setenv(config.EnvConfig, path)

		pc, err := LoadProjectConfig(&cmdtypes.GlobalConfig{}, dir)
		require.NoError(t, err)
		assert.Equal(t, "From Env", pc.Config.Name)
		assert.Equal(t, config.SourceEnv, pc.Path.Source)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, config.ProjectFileName, "name: [unterminated\n")

		_, err := LoadProjectConfig(&cmdtypes.GlobalConfig{}, dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})

	t.Run("schema violation", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, config.ProjectFileName, "compiler:\n  retries: 9\n")

		_, err := LoadProjectConfig(&cmdtypes.GlobalConfig{}, dir)
		var verrs config.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, cmdtypes.ExitValidationError, oerrors.ExitCodeFromError(err))
	})
}

func TestBuildFlags(t *testing.T) {
	var f BuildFlags
	cmd := &cobra.Command{Use: "build"}
	f.AddTo(cmd)

	require.NoError(t, cmd.ParseFlags([]string{"-d", "--out-dir", "dist", "--version", "1.4", "--skip-compile"}))
	assert.True(t, f.Debug)
	assert.Equal(t, "dist", f.OutDir)
	assert.Equal(t, "1.4", f.Version)
	assert.True(t, f.SkipCompile)
}

func TestResolveSourceDir(t *testing.T) {
	assert.Equal(t, "ext", ResolveSourceDir([]string{"ext"}))
	assert.Empty(t, ResolveSourceDir(nil))
}
