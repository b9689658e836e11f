// Package config provides configuration loading and management.
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/extpack/internal/compiler"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)

	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, "manifest.json", cfg.Manifest)
	assert.Empty(t, cfg.Name) // falls back to the manifest name

	// Background defaults
	assert.Equal(t, "js/background.js", cfg.Background.Bundle)
	assert.Equal(t, []string{"lib/"}, cfg.Background.Passthrough)
	assert.Empty(t, cfg.Background.Level)

	// Compiler defaults
	assert.Equal(t, compiler.DefaultEndpoint, cfg.Compiler.Endpoint)
	assert.Equal(t, compiler.DefaultLanguage, cfg.Compiler.Language)
	assert.Equal(t, "60s", cfg.Compiler.Timeout)
	assert.Equal(t, 1, cfg.Compiler.Parallelism)
}

func TestPageConfig_PageBundle(t *testing.T) {
	assert.Equal(t, "js/all.js", PageConfig{HTML: "popup.html"}.PageBundle())
	assert.Equal(t, "js/options.min.js", PageConfig{HTML: "options.html", Bundle: "js/options.min.js"}.PageBundle())
}

func TestResolvedValue(t *testing.T) {
	rv := ResolvedValue{
		Key:    "version",
		Value:  "1.2.3",
		Source: SourceFlag,
		Shadowed: map[ConfigSource]any{
			SourceConfig: "1.0",
		},
	}

	assert.Equal(t, "version", rv.Key)
	assert.Equal(t, "1.2.3", rv.Value)
	assert.Equal(t, SourceFlag, rv.Source)
	assert.Len(t, rv.Shadowed, 1)
	assert.Equal(t, "1.0", rv.Shadowed[SourceConfig])
}
