package version

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

// describeRegex matches `git describe --tags` output:
// v2.3, v2.3-5-gabc1234, v2.3.1-12-gabc1234-dirty.
var describeRegex = regexp.MustCompile(`^v(\d+(?:\.\d+)+)(?:-(\d+)-g[0-9a-f]+)?(?:-dirty)?$`)

// maxComponent is the largest value a browser manifest accepts for one
// dotted version component.
const maxComponent = 65535

// Resolver produces the release version of the packaged extension.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// ResolutionError indicates no release version could be derived.
type ResolutionError struct {
	// Describe is the raw git describe output, if any.
	Describe string

	// Reason explains why resolution failed.
	Reason string

	// Cause is the underlying error (optional).
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Describe != "" {
		return fmt.Sprintf("resolving version from %q: %s", e.Describe, e.Reason)
	}
	return "resolving version: " + e.Reason
}

// Unwrap exposes both the version sentinel and the cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrVersion}
	}
	return []error{oerrors.ErrVersion, e.Cause}
}

// GitResolver resolves the version from the nearest reachable tag.
type GitResolver struct {
	// Dir is the working tree to describe.
	Dir string

	// GitPath overrides the git binary lookup.
	GitPath string
}

// Resolve runs git describe in Dir and parses its output.
func (r *GitResolver) Resolve(ctx context.Context) (string, error) {
	gitPath := r.GitPath
	if gitPath == "" {
		var err error
		gitPath, err = exec.LookPath("git")
		if err != nil {
			return "", &ResolutionError{Reason: "git binary not found in PATH", Cause: err}
		}
	}

	out, err := runGit(ctx, gitPath, r.Dir, "describe", "--tags")
	if err != nil {
		return "", &ResolutionError{Reason: "no reachable tag", Cause: err}
	}

	return ParseDescribe(out)
}

// StaticResolver returns a fixed version, used when the version is pinned
// by flag or config.
type StaticResolver string

// Resolve validates and returns the pinned version.
func (s StaticResolver) Resolve(context.Context) (string, error) {
	v := string(s)
	if err := checkVersion(v); err != nil {
		return "", &ResolutionError{Describe: v, Reason: err.Error()}
	}
	return v, nil
}

// ParseDescribe converts git describe output into MAJOR.MINOR[.PATCH].
// The patch level is the number of commits since the tag and is omitted
// when zero.
func ParseDescribe(describe string) (string, error) {
	describe = strings.TrimSpace(describe)
	m := describeRegex.FindStringSubmatch(describe)
	if m == nil {
		return "", &ResolutionError{
			Describe: describe,
			Reason:   "tag does not match vMAJOR.MINOR[-PATCH-gHASH]",
		}
	}

	v := m[1]
	if m[2] != "" && m[2] != "0" {
		v += "." + m[2]
	}

	if err := checkVersion(v); err != nil {
		return "", &ResolutionError{Describe: describe, Reason: err.Error()}
	}
	return v, nil
}

// checkVersion rejects versions a browser manifest would not accept.
func checkVersion(v string) error {
	parts := strings.Split(v, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return fmt.Errorf("version %q must have 2 to 4 dotted components", v)
	}
	if !semver.IsValid("v" + strings.Join(parts[:min(len(parts), 3)], ".")) {
		return fmt.Errorf("version %q is not a valid dotted version", v)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n > maxComponent {
			return fmt.Errorf("version component %q out of range 0-%d", p, maxComponent)
		}
	}
	return nil
}
