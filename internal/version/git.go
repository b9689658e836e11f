package version

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// gitVersionRegex matches git version output like "git version 2.43.0".
var gitVersionRegex = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// GitBinaryInfo contains git binary information.
type GitBinaryInfo struct {
	// Version is the git binary version.
	Version string `json:"version"`

	// Path is the path to the git binary.
	Path string `json:"path"`

	// Found indicates if the git binary was found.
	Found bool `json:"found"`

	// Message provides additional information when detection failed.
	Message string `json:"message,omitempty"`
}

// String returns a human-readable git binary info string.
func (g GitBinaryInfo) String() string {
	if !g.Found {
		return "  Binary Version: not found\n  Binary Path:    -"
	}
	return fmt.Sprintf("  Binary Version: %s\n  Binary Path:    %s", g.Version, g.Path)
}

// DetectGit finds the git binary and reports its version.
func DetectGit() GitBinaryInfo {
	path, err := exec.LookPath("git")
	if err != nil {
		return GitBinaryInfo{Message: "git binary not found in PATH"}
	}

	out, err := runGit(context.Background(), path, "", "version")
	if err != nil {
		return GitBinaryInfo{
			Path:    path,
			Found:   true,
			Message: "failed to get git version: " + err.Error(),
		}
	}

	return GitBinaryInfo{
		Version: gitVersionRegex.FindString(out),
		Path:    path,
		Found:   true,
	}
}

// runGit executes git with args in dir and returns trimmed stdout.
// Stderr is folded into the returned error.
func runGit(ctx context.Context, gitPath, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", err
		}
		return "", errors.New(msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}
