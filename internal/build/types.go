// Package build turns an extension source tree into a versioned build
// directory and its zip archive.
//
// A build runs a fixed sequence of stages. Each stage completes before the
// next one starts, and a failing stage stops the build with a *StageError
// naming it. Compilation stages are skipped when their level is none.
package build

import (
	"github.com/opmodel/extpack/internal/compiler"
)

// Stage identifies a step of the build.
type Stage int

// Stages in execution order.
const (
	StageClean Stage = iota
	StageStaticCopy
	StageManifest
	StageBackgroundCompile
	StagePagesCompile
	StageArchive
)

var stageNames = [...]string{
	StageClean:             "clean",
	StageStaticCopy:        "static-copy",
	StageManifest:          "manifest",
	StageBackgroundCompile: "background-compile",
	StagePagesCompile:      "pages-compile",
	StageArchive:           "archive",
}

// String returns the stage name used in logs and errors.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{
		StageClean,
		StageStaticCopy,
		StageManifest,
		StageBackgroundCompile,
		StagePagesCompile,
		StageArchive,
	}
}

// Target is where a build lands.
type Target struct {
	// Name is the build directory name: <name>-<version>[-dbg].
	Name string

	// Dir is the absolute build directory.
	Dir string

	// Archive is the absolute path of the zip archive.
	Archive string

	// Version is the resolved release version.
	Version string
}

// Result describes a completed build.
type Result struct {
	// Target is the build location.
	Target Target

	// Stages lists the stages that ran, in order. Skipped compile stages
	// are absent.
	Stages []Stage

	// Copied lists the statically copied files.
	Copied []string

	// Units holds the compilation results in stage order.
	Units []*compiler.Result

	// Warnings counts compiler warnings across all units.
	Warnings int
}

// Ran reports whether the stage ran.
func (r *Result) Ran(s Stage) bool {
	for _, done := range r.Stages {
		if done == s {
			return true
		}
	}
	return false
}
