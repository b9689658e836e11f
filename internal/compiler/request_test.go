package compiler

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/extpack/internal/testutil"
)

func TestEncodeRequest(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "js/a.js", "var a = 1;")
	testutil.WriteFile(t, root, "lib/vendor.min.js", "/* prebuilt */")
	testutil.WriteFile(t, root, "js/b.js", "var b = a;")
	testutil.WriteFile(t, root, "js/externs.js", "var chrome;")

	unit := NewUnit("background", []string{"js/a.js", "lib/vendor.min.js", "js/b.js"}, "js/background.js", Options{
		Level:       LevelAdvanced,
		Externs:     "js/externs.js",
		ExternsURLs: []string{"https://example.com/chrome_extensions.js", "https://example.com/jquery.js"},
		SkipFiles:   []string{"vendor.min.js"},
	})

	payload, err := EncodeRequest(root, unit)
	require.NoError(t, err)

	form := payload.Form
	assert.Equal(t, []string{
		"/** @define {boolean} */\nvar DEBUG = false;",
		"var a = 1;",
		"var b = a;",
	}, form["js_code"], "debug define first, skipped files absent, order preserved")
	assert.Equal(t, []string{"js/a.js", "js/b.js"}, payload.Submitted)

	assert.Equal(t, "ADVANCED_OPTIMIZATIONS", form.Get("compilation_level"))
	assert.Equal(t, DefaultLanguage, form.Get("language"))
	assert.Equal(t, "json", form.Get("output_format"))
	assert.Equal(t, []string{"statistics", "warnings", "errors", "compiled_code"}, form["output_info"])
	assert.Empty(t, form.Get("formatting"), "release builds are not pretty printed")
	assert.Equal(t, "var chrome;", form.Get("js_externs"))
	assert.Equal(t, []string{"https://example.com/chrome_extensions.js", "https://example.com/jquery.js"}, form["externs_url"])
}

func TestEncodeRequest_Debug(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "js/a.js", "var a;")

	unit := NewUnit("popup.html", []string{"js/a.js"}, "js/all.js", Options{
		Level:    LevelSimple,
		Language: "ECMASCRIPT_2015",
		Debug:    true,
	})

	payload, err := EncodeRequest(root, unit)
	require.NoError(t, err)

	assert.Equal(t, "/** @define {boolean} */\nvar DEBUG = true;", payload.Form["js_code"][0])
	assert.Equal(t, "pretty_print", payload.Form.Get("formatting"))
	assert.Equal(t, "ECMASCRIPT_2015", payload.Form.Get("language"))
	_, hasExterns := payload.Form["js_externs"]
	assert.False(t, hasExterns)
	_, hasURLs := payload.Form["externs_url"]
	assert.False(t, hasURLs)
}

func TestEncodeRequest_MissingFile(t *testing.T) {
	unit := NewUnit("bg", []string{"js/missing.js"}, "js/background.js", Options{Level: LevelSimple})
	_, err := EncodeRequest(t.TempDir(), unit)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "js/missing.js")
}
