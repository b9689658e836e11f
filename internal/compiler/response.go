package compiler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Diagnostic filename labels for inputs that are not unit files.
const (
	ExternsLabel = "externs"
	DefineLabel  = "<debug-define>"
)

// inputPrefix precedes the js_code index in a diagnostic's file field.
const inputPrefix = "Input_"

// Diagnostic is one error or warning reported by the service.
type Diagnostic struct {
	// Type is the service's diagnostic key, e.g. JSC_UNDEFINED_VARIABLE.
	Type string

	// File is the raw file field ("Input_2", "Externs").
	File string

	// Filename is File resolved to a source path or label.
	Filename string

	// Line is the 1-based line number; zero when unknown.
	Line int

	// Char is the column reported by the service.
	Char int

	// LineText is the offending source line.
	LineText string

	// Message is the error or warning text.
	Message string
}

// Statistics are the size figures reported by the service.
type Statistics struct {
	OriginalSize       int `json:"originalSize"`
	OriginalGzipSize   int `json:"originalGzipSize"`
	CompressedSize     int `json:"compressedSize"`
	CompressedGzipSize int `json:"compressedGzipSize"`
	CompileTime        int `json:"compileTime"`
}

// Result is the interpreted response for one unit. It is not modified
// after ParseResponse returns it.
type Result struct {
	// Unit names the compiled unit.
	Unit string

	// CompiledCode is the compiled program text.
	CompiledCode string

	// Errors and Warnings keep the service's emission order.
	Errors   []Diagnostic
	Warnings []Diagnostic

	// Statistics is nil when the service did not report any.
	Statistics *Statistics
}

// HasErrors reports whether the service reported at least one error.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns a CompilationError when the result carries errors.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return &CompilationError{Unit: r.Unit, Errors: len(r.Errors), Warnings: len(r.Warnings)}
}

type rawDiagnostic struct {
	Type    string `json:"type"`
	File    string `json:"file"`
	Lineno  int    `json:"lineno"`
	Charno  int    `json:"charno"`
	Error   string `json:"error"`
	Warning string `json:"warning"`
	Line    string `json:"line"`
}

type serverError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type response struct {
	CompiledCode *string         `json:"compiledCode"`
	Errors       []rawDiagnostic `json:"errors"`
	Warnings     []rawDiagnostic `json:"warnings"`
	ServerErrors []serverError   `json:"serverErrors"`
	Statistics   *Statistics     `json:"statistics"`
}

// ParseResponse decodes the service's JSON output and attributes every
// diagnostic to a submitted file.
func ParseResponse(unit string, body []byte, submitted []string) (*Result, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &MalformedResponseError{Unit: unit, Reason: "empty response body"}
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Unit: unit, Reason: "response is not the expected JSON", Cause: err}
	}

	if len(resp.ServerErrors) > 0 {
		msgs := make([]string, len(resp.ServerErrors))
		for i, se := range resp.ServerErrors {
			msgs[i] = strconv.Itoa(se.Code) + ": " + se.Error
		}
		return nil, &MalformedResponseError{Unit: unit, Reason: "server errors: " + strings.Join(msgs, "; ")}
	}

	// without errors the service always sends compiledCode, even when empty
	if resp.CompiledCode == nil && len(resp.Errors) == 0 {
		return nil, &MalformedResponseError{Unit: unit, Reason: "response has neither compiledCode nor errors"}
	}

	var code string
	if resp.CompiledCode != nil {
		code = *resp.CompiledCode
	}

	return &Result{
		Unit:         unit,
		CompiledCode: code,
		Errors:       convert(resp.Errors, submitted),
		Warnings:     convert(resp.Warnings, submitted),
		Statistics:   resp.Statistics,
	}, nil
}

func convert(raw []rawDiagnostic, submitted []string) []Diagnostic {
	if len(raw) == 0 {
		return nil
	}
	diags := make([]Diagnostic, len(raw))
	for i, r := range raw {
		msg := r.Error
		if msg == "" {
			msg = r.Warning
		}
		diags[i] = Diagnostic{
			Type:     r.Type,
			File:     r.File,
			Filename: ResolveFilename(r.File, submitted),
			Line:     r.Lineno,
			Char:     r.Charno,
			LineText: r.Line,
			Message:  msg,
		}
	}
	return diags
}

// ResolveFilename maps a diagnostic file field to a source path. Input_0 is
// the debug define fragment, so Input_N names submitted[N-1]. Fields that
// cannot be mapped are returned unchanged.
func ResolveFilename(file string, submitted []string) string {
	if strings.Contains(file, "Externs") || strings.Contains(file, "externs") {
		return ExternsLabel
	}
	if !strings.HasPrefix(file, inputPrefix) {
		return file
	}

	n, err := strconv.Atoi(file[len(inputPrefix):])
	if err != nil || n < 0 {
		return file
	}
	if n == 0 {
		return DefineLabel
	}
	if n > len(submitted) {
		return file
	}
	return submitted[n-1]
}
