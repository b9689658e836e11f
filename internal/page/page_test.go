package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

const popupHTML = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="main.css">
  <!-- JS -->
  <script src="js/util.js" type="text/javascript"></script>
  <script type="text/javascript">var inline = "<script src=\"ignored.js\">";</script>
  <script src="js/popup.js" type="text/javascript"></script>
  <!-- /JS -->
</head>
<body><script src="analytics.js"></script></body>
</html>
`

func TestExtractRegion(t *testing.T) {
	scripts, err := ExtractRegion(popupHTML)
	require.NoError(t, err)
	assert.Equal(t, []string{"js/util.js", "js/popup.js"}, scripts,
		"only src attributes inside the region, in document order")
}

func TestExtractRegion_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no region", `<html><script src="a.js"></script></html>`},
		{"two regions", "<!-- JS -->a<!-- /JS --><!-- JS -->b<!-- /JS -->"},
		{"unbalanced", "<!-- JS --><script src=\"a.js\"></script>"},
		{"reversed", "<!-- /JS --><script src=\"a.js\"></script><!-- JS -->"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractRegion(tt.doc)
			require.Error(t, err)
			var regionErr *MissingIncludeRegionError
			assert.ErrorAs(t, err, &regionErr)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
			assert.NotEmpty(t, regionErr.Error())
		})
	}
}

func TestReplaceRegion(t *testing.T) {
	out, err := ReplaceRegion(popupHTML, "js/all.js")
	require.NoError(t, err)

	scripts, err := ExtractRegion(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"js/all.js"}, scripts)

	// Content outside the region is byte-identical.
	before := popupHTML[:strings.Index(popupHTML, DefaultOpenMarker)]
	after := popupHTML[strings.Index(popupHTML, DefaultCloseMarker)+len(DefaultCloseMarker):]
	assert.True(t, strings.HasPrefix(out, before))
	assert.True(t, strings.HasSuffix(out, after))
	assert.Contains(t, out, `<script src="js/all.js" type="text/javascript"></script>`)
}

func TestReplaceRegion_Idempotent(t *testing.T) {
	once, err := ReplaceRegion(popupHTML, "js/all.js")
	require.NoError(t, err)
	twice, err := ReplaceRegion(once, "js/all.js")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestReplaceRegion_MissingRegion(t *testing.T) {
	_, err := ReplaceRegion("<html></html>", "js/all.js")
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestCustomMarkers(t *testing.T) {
	m := Markers{Open: "<!-- build:js -->", Close: "<!-- endbuild -->"}
	doc := `<p>x</p><!-- build:js --><script src="a.js"></script><script src='b.js'/><!-- endbuild -->`

	r, err := m.Locate(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.js"}, r.Scripts)
	assert.Equal(t, len(doc), r.End)
	assert.Equal(t, strings.Index(doc, "<!-- build"), r.Start)
}

func TestScriptInclude(t *testing.T) {
	assert.Equal(t, `<script src="js/a&amp;b.js" type="text/javascript"></script>`, ScriptInclude("js/a&b.js"))
}
