package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDiagnostic(t *testing.T) {
	d := Diagnostic{Filename: "js/b.js", Line: 4, Message: "Parse error."}
	assert.Equal(t, "js/b.js:4 Parse error.", FormatDiagnostic(d, nil))
}

func TestWriteDiagnostics(t *testing.T) {
	result := &Result{
		Errors: []Diagnostic{
			{Filename: "js/b.js", Line: 4, Message: "Parse error.", LineText: "var x = "},
		},
		Warnings: []Diagnostic{
			{Filename: ExternsLabel, Line: 7, Message: "unknown type"},
		},
	}

	var buf bytes.Buffer
	WriteDiagnostics(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Errors:")
	assert.Contains(t, out, "js/b.js:4")
	assert.Contains(t, out, "Parse error.")
	assert.Contains(t, out, "var x = ")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "externs:7")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Errors:")), bytes.Index(buf.Bytes(), []byte("Warnings:")))
}

func TestWriteDiagnostics_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteDiagnostics(&buf, &Result{})
	assert.Empty(t, buf.String())
}
