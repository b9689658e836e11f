package compiler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/opmodel/extpack/internal/output"
)

// WriteDiagnostics prints every error and then every warning of result as
// "filename:lineno message" followed by the offending source line.
func WriteDiagnostics(w io.Writer, result *Result) {
	writeSection(w, "Errors:", result.Errors, output.StyleDiagError.Render)
	writeSection(w, "Warnings:", result.Warnings, output.StyleDiagWarning.Render)
}

func writeSection(w io.Writer, title string, diags []Diagnostic, style func(...string) string) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w, output.StyleSummary.Render(title))
	for _, d := range diags {
		fmt.Fprintln(w, FormatDiagnostic(d, style))
		if d.LineText != "" {
			fmt.Fprintln(w, output.StyleDim.Render(d.LineText))
		}
	}
	fmt.Fprintln(w)
}

// FormatDiagnostic renders the location and message of one diagnostic.
// style is applied to the location; nil leaves it plain.
func FormatDiagnostic(d Diagnostic, style func(...string) string) string {
	loc := d.Filename + ":" + strconv.Itoa(d.Line)
	if style != nil {
		loc = style(loc)
	}
	return loc + " " + d.Message
}
