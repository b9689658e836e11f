package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

const extensionManifest = `{
  // comments are accepted by browsers
  "manifest_version": 2,
  "name": "Source Name",
  "version": "0.0",
  "background": {
    "scripts": ["lib/vendor.js", "js/background.js"],
  },
  "permissions": ["storage", "<all_urls>"]
}`

const appManifest = `{
  "name": "App",
  "version": "0.0",
  "app": {"background": {"scripts": ["js/a.js", "js/b.js"]}}
}`

func TestParse(t *testing.T) {
	t.Run("extension", func(t *testing.T) {
		doc, err := Parse([]byte(extensionManifest))
		require.NoError(t, err)
		assert.Equal(t, KindExtension, doc.Kind)
		assert.Equal(t, "Source Name", doc.Name())

		scripts, err := doc.BackgroundScripts()
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/vendor.js", "js/background.js"}, scripts)
	})

	t.Run("app", func(t *testing.T) {
		doc, err := Parse([]byte(appManifest))
		require.NoError(t, err)
		assert.Equal(t, KindApp, doc.Kind)
		assert.Equal(t, "app", doc.Kind.String())

		scripts, err := doc.BackgroundScripts()
		require.NoError(t, err)
		assert.Equal(t, []string{"js/a.js", "js/b.js"}, scripts)
	})

	t.Run("hosted app", func(t *testing.T) {
		doc, err := Parse([]byte(`{
			"app": {"launch": {"web_url": "https://example.com/"}},
			"background": {"scripts": ["js/a.js", "js/b.js"]}
		}`))
		require.NoError(t, err)
		assert.Equal(t, KindExtension, doc.Kind)

		scripts, err := doc.BackgroundScripts()
		require.NoError(t, err)
		assert.Equal(t, []string{"js/a.js", "js/b.js"}, scripts)
	})

	t.Run("no background", func(t *testing.T) {
		doc, err := Parse([]byte(`{"name": "x"}`))
		require.NoError(t, err)
		scripts, err := doc.BackgroundScripts()
		require.NoError(t, err)
		assert.Empty(t, scripts)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"name": `},
		{"not an object", `["a"]`},
		{"null", `null`},
		{"scripts not array", `{"background": {"scripts": "js/a.js"}}`},
		{"script not string", `{"background": {"scripts": [1]}}`},
		{"background not object", `{"background": "js/a.js"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0o644))

	_, err := Load(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.Contains(t, err.Error(), path)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestPartitionBackgroundScripts(t *testing.T) {
	doc, err := Parse([]byte(extensionManifest))
	require.NoError(t, err)

	tests := []struct {
		name            string
		skip            []string
		wantCompiled    []string
		wantPassthrough []string
	}{
		{
			name:            "base name",
			skip:            []string{"vendor.js"},
			wantCompiled:    []string{"js/background.js"},
			wantPassthrough: []string{"lib/vendor.js"},
		},
		{
			name:            "directory prefix",
			skip:            []string{"lib/"},
			wantCompiled:    []string{"js/background.js"},
			wantPassthrough: []string{"lib/vendor.js"},
		},
		{
			name:         "prefix without slash is not a directory match",
			skip:         []string{"lib"},
			wantCompiled: []string{"lib/vendor.js", "js/background.js"},
		},
		{
			name:         "nothing flagged",
			skip:         nil,
			wantCompiled: []string{"lib/vendor.js", "js/background.js"},
		},
		{
			name:            "full path",
			skip:            []string{"js/background.js", ""},
			wantCompiled:    []string{"lib/vendor.js"},
			wantPassthrough: []string{"js/background.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, passthrough, err := doc.PartitionBackgroundScripts(tt.skip)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompiled, compiled)
			assert.Equal(t, tt.wantPassthrough, passthrough)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(extensionManifest))
	require.NoError(t, err)

	_, passthrough, err := doc.PartitionBackgroundScripts([]string{"vendor.js"})
	require.NoError(t, err)

	doc.SetDisplayName(LocalizedNameKey)
	doc.SetVersion("2.3.5")
	require.NoError(t, doc.SetBackgroundScripts(append(passthrough, "js/background.js")))

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, doc.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\": \"__MSG_extName__\"")
	assert.Contains(t, string(data), `"<all_urls>"`, "HTML characters are not escaped")
	assert.Contains(t, string(data), `"manifest_version": 2,`)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.3.5", reloaded.Version())
	scripts, err := reloaded.BackgroundScripts()
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/vendor.js", "js/background.js"}, scripts)

	again, err := reloaded.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again, "serialization is reproducible")
}

func TestSetBackgroundScriptsCreatesPath(t *testing.T) {
	doc, err := Parse([]byte(`{"name": "App", "app": {}}`))
	require.NoError(t, err)
	require.NoError(t, doc.SetBackgroundScripts([]string{"js/background.js"}))

	scripts, err := doc.BackgroundScripts()
	require.NoError(t, err)
	assert.Equal(t, []string{"js/background.js"}, scripts)
}
