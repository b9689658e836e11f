package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	data, err := RenderTemplate(TemplateOptions{
		Name:  "Password Generator",
		Files: []string{"popup.html", "js/main.js"},
		Pages: []string{"popup.html"},
	})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# extpack project configuration")
	assert.Contains(t, text, "name: Password Generator")
	assert.Contains(t, text, "# Files copied verbatim into the build directory.")
	assert.Contains(t, text, "- popup.html")

	t.Run("round trips through the loader", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "extpack.yaml", text)

		cfg, err := NewLoader().WithUserConfig("").Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Password Generator", cfg.Name)
		assert.Equal(t, []string{"popup.html", "js/main.js"}, cfg.Files)
		require.Len(t, cfg.Pages, 1)
		assert.Equal(t, "popup.html", cfg.Pages[0].HTML)
		assert.Equal(t, "js/all.js", cfg.Pages[0].Bundle)
		assert.Equal(t, DefaultConfig().Compiler, cfg.Compiler)
	})

	t.Run("passes schema validation", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "extpack.yaml", text)

		v, err := NewValidator()
		require.NoError(t, err)
		assert.NoError(t, v.ValidateFile(path))
	})
}

func TestTemplateBundle(t *testing.T) {
	assert.Equal(t, DefaultPageBundle, templateBundle(0, "popup.html"))
	assert.Equal(t, "js/options.all.js", templateBundle(1, "options.html"))
	assert.Equal(t, "js/help.all.js", templateBundle(2, "pages/help.htm"))
}
