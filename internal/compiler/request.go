package compiler

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// debugDefine returns the first source fragment of every payload.
func debugDefine(debug bool) string {
	return fmt.Sprintf("/** @define {boolean} */\nvar DEBUG = %t;", debug)
}

// outputInfo lists the output channels requested from the service.
var outputInfo = []string{"statistics", "warnings", "errors", "compiled_code"}

// request is the form body of a compile call.
type request struct {
	JSCode           []string `url:"js_code"`
	CompilationLevel string   `url:"compilation_level"`
	Language         string   `url:"language,omitempty"`
	OutputFormat     string   `url:"output_format"`
	OutputInfo       []string `url:"output_info"`
	Formatting       string   `url:"formatting,omitempty"`
	JSExterns        string   `url:"js_externs,omitempty"`
	ExternsURL       []string `url:"externs_url,omitempty"`
}

// Payload is an encoded submission together with the files it contains.
type Payload struct {
	// Form is the URL-encoded form body.
	Form url.Values

	// Submitted are the file paths whose content was sent, in order.
	// js_code index i+1 holds Submitted[i]; index 0 is the debug define.
	Submitted []string
}

// EncodeRequest reads the unit's files under root and builds the form
// payload.
func EncodeRequest(root string, unit Unit) (*Payload, error) {
	opts := unit.Options
	req := request{
		JSCode:           []string{debugDefine(opts.Debug)},
		CompilationLevel: string(opts.Level),
		Language:         opts.Language,
		OutputFormat:     "json",
		OutputInfo:       outputInfo,
		ExternsURL:       opts.ExternsURLs,
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if opts.Debug {
		req.Formatting = "pretty_print"
	}

	var submitted []string
	for _, f := range unit.Files {
		if unit.skipped(f) {
			continue
		}
		code, err := f.Read(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Path, err)
		}
		req.JSCode = append(req.JSCode, code)
		submitted = append(submitted, f.Path)
	}

	if opts.Externs != "" {
		externs, err := SourceFile{Path: opts.Externs}.Read(root)
		if err != nil {
			return nil, fmt.Errorf("reading externs %s: %w", opts.Externs, err)
		}
		req.JSExterns = externs
	}

	form, err := query.Values(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	return &Payload{Form: form, Submitted: submitted}, nil
}
