// Package compiler submits JavaScript compilation units to a remote
// Closure Compiler service and interprets its structured response.
package compiler

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Level is the compilation level understood by the service.
type Level string

// Compilation levels. LevelNone disables compilation of a unit.
const (
	LevelNone       Level = ""
	LevelWhitespace Level = "WHITESPACE_ONLY"
	LevelSimple     Level = "SIMPLE_OPTIMIZATIONS"
	LevelAdvanced   Level = "ADVANCED_OPTIMIZATIONS"
)

// DefaultLanguage is the input language submitted when none is configured.
const DefaultLanguage = "ECMASCRIPT5_STRICT"

// ParseLevel parses a configured level. Empty, "none" and "false" disable
// compilation.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "", "none", "false":
		return LevelNone, nil
	case "whitespace", string(LevelWhitespace):
		return LevelWhitespace, nil
	case "simple", string(LevelSimple):
		return LevelSimple, nil
	case "advanced", string(LevelAdvanced):
		return LevelAdvanced, nil
	default:
		return LevelNone, fmt.Errorf("unknown compilation level %q", s)
	}
}

// Enabled reports whether the level requests compilation.
func (l Level) Enabled() bool {
	return l != LevelNone
}

// Options are fixed per unit before submission.
type Options struct {
	// Level is the optimization level.
	Level Level

	// Language is the input language (ECMAScript version).
	Language string

	// Debug injects DEBUG=true and requests pretty printed output.
	Debug bool

	// Externs is an optional local externs file, relative to the source root.
	Externs string

	// ExternsURLs are externs fetched by the service.
	ExternsURLs []string

	// SkipFiles are base names left out of the payload. They are
	// pre-compiled or third party files still referenced elsewhere.
	SkipFiles []string
}

// SourceFile is a source path relative to the project root.
type SourceFile struct {
	Path string
}

// Read returns the file content under root.
func (f SourceFile) Read(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unit is an ordered set of files compiled atomically as one program.
type Unit struct {
	// Name identifies the unit in logs and diagnostics ("background", "popup.html").
	Name string

	// Files are the unit's sources in concatenation order, deduplicated.
	Files []SourceFile

	// Output is the bundle path the compiled code is written to.
	Output string

	// Options are the compilation options.
	Options Options
}

// NewUnit builds a unit, dropping repeated paths after their first
// occurrence.
func NewUnit(name string, paths []string, output string, opts Options) Unit {
	seen := make(map[string]bool, len(paths))
	files := make([]SourceFile, 0, len(paths))
	for _, p := range paths {
		clean := path.Clean(p)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		files = append(files, SourceFile{Path: p})
	}
	return Unit{Name: name, Files: files, Output: output, Options: opts}
}

// Paths returns the unit's file paths in order.
func (u Unit) Paths() []string {
	paths := make([]string, len(u.Files))
	for i, f := range u.Files {
		paths[i] = f.Path
	}
	return paths
}

// skipped reports whether the file is excluded from the payload.
func (u Unit) skipped(f SourceFile) bool {
	base := path.Base(f.Path)
	for _, s := range u.Options.SkipFiles {
		if s == base {
			return true
		}
	}
	return false
}
