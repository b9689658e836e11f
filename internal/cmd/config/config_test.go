package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/extpack/internal/cmdtypes"
	"github.com/opmodel/extpack/internal/config"
	"github.com/opmodel/extpack/internal/testutil"
)

// fixtureWithoutConfig copies the fixture extension and removes its
// project file.
func fixtureWithoutConfig(t *testing.T) string {
	t.Helper()
	dir := testutil.CopyFixture(t, "password-generator")
	require.NoError(t, os.Remove(filepath.Join(dir, config.ProjectFileName)))
	return dir
}

func execute(t *testing.T, g *cmdtypes.GlobalConfig, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := NewConfigCmd(g)
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)
	err := c.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigInit(t *testing.T) {
	dir := fixtureWithoutConfig(t)
	g := &cmdtypes.GlobalConfig{}

	_, _, err := execute(t, g, "init", dir)
	require.NoError(t, err)

	cfg, err := config.NewLoader().WithUserConfig("").Load(filepath.Join(dir, config.ProjectFileName))
	require.NoError(t, err)

	assert.Equal(t, "Password Generator (dev)", cfg.Name)
	assert.Contains(t, cfg.Files, "popup.html")
	assert.Contains(t, cfg.Files, "js/main.js")
	assert.Contains(t, cfg.Files, "icons/icon-16.png")
	assert.NotContains(t, cfg.Files, "manifest.json")
	assert.NotContains(t, cfg.Files, config.ProjectFileName)

	require.Len(t, cfg.Pages, 2)
	assert.Equal(t, "options.html", cfg.Pages[0].HTML)
	assert.Equal(t, "popup.html", cfg.Pages[1].HTML)
	assert.NotEqual(t, cfg.Pages[0].Bundle, cfg.Pages[1].Bundle)

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, _, err := execute(t, g, "init", dir)
		var exitErr *cmdtypes.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, cmdtypes.ExitGeneralError, exitErr.Code)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("force with name", func(t *testing.T) {
		_, _, err := execute(t, g, "init", dir, "--force", "--name", "PassGen")
		require.NoError(t, err)

		cfg, err := config.NewLoader().WithUserConfig("").Load(filepath.Join(dir, config.ProjectFileName))
		require.NoError(t, err)
		assert.Equal(t, "PassGen", cfg.Name)
	})

	t.Run("generated file vets clean", func(t *testing.T) {
		stdout, _, err := execute(t, g, "vet", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Config file is valid")
	})
}

func TestConfigInit_MissingSourceDir(t *testing.T) {
	_, _, err := execute(t, &cmdtypes.GlobalConfig{}, "init", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestConfigVet(t *testing.T) {
	t.Run("fixture is valid", func(t *testing.T) {
		dir := testutil.CopyFixture(t, "password-generator")
		stdout, _, err := execute(t, &cmdtypes.GlobalConfig{}, "vet", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, filepath.Join(dir, config.ProjectFileName))
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, &cmdtypes.GlobalConfig{}, "vet", t.TempDir())
		var exitErr *cmdtypes.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, cmdtypes.ExitNotFound, exitErr.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "custom.yaml", "name: x\nbogus: true\n")

		_, stderr, err := execute(t, &cmdtypes.GlobalConfig{ConfigFlag: path}, "vet")
		var exitErr *cmdtypes.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, cmdtypes.ExitValidationError, exitErr.Code)
		assert.True(t, exitErr.Printed)
		assert.Contains(t, stderr, "config validation failed")
	})
}

func TestConfigView(t *testing.T) {
	dir := testutil.CopyFixture(t, "password-generator")

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := execute(t, &cmdtypes.GlobalConfig{}, "view", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "name: Password Generator")
		assert.Contains(t, stdout, "parallelism: 2")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, &cmdtypes.GlobalConfig{}, "view", dir, "-o", "json")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, "Password Generator", got["name"])
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := execute(t, &cmdtypes.GlobalConfig{}, "view", dir, "-o", "table")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output format")
	})
}
