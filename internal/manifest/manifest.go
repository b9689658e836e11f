// Package manifest loads, rewrites and writes browser extension manifests.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tailscale/hujson"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

// LocalizedNameKey is the message key used when the display name comes
// from the extension's locale files.
const LocalizedNameKey = "__MSG_extName__"

// Kind distinguishes hosted apps from regular extensions. It decides where
// the background script list lives.
type Kind int

const (
	// KindExtension keeps background scripts under background.scripts.
	KindExtension Kind = iota

	// KindApp keeps background scripts under app.background.scripts.
	KindApp
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindApp {
		return "app"
	}
	return "extension"
}

// Document is a parsed extension manifest.
type Document struct {
	// Kind is resolved once at load time.
	Kind Kind

	root map[string]any
}

// ParseError indicates the manifest could not be parsed.
type ParseError struct {
	// Path is the manifest file, if known.
	Path string

	// Reason explains what was malformed.
	Reason string

	// Cause is the underlying error (optional).
	Cause error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "manifest"
	}
	return fmt.Sprintf("parsing %s: %s", loc, e.Reason)
}

// Unwrap exposes both the validation sentinel and the cause.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrValidation}
	}
	return []error{oerrors.ErrValidation, e.Cause}
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reading manifest: %w: %w", oerrors.ErrNotFound, err)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes manifest bytes. Comments and trailing commas are accepted,
// as browsers accept them in manifest.json.
func Parse(data []byte) (*Document, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Cause: err}
	}

	var root map[string]any
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Reason: "manifest must be a JSON object", Cause: err}
	}
	if root == nil {
		return nil, &ParseError{Reason: "manifest must be a JSON object"}
	}

	doc := &Document{root: root}
	// hosted apps carry an app key too but keep top-level background scripts
	if app, ok := root["app"].(map[string]any); ok {
		if _, ok := app["background"]; ok {
			doc.Kind = KindApp
		}
	}

	if _, err := doc.BackgroundScripts(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Name returns the manifest name field.
func (d *Document) Name() string {
	s, _ := d.root["name"].(string)
	return s
}

// Version returns the manifest version field.
func (d *Document) Version() string {
	s, _ := d.root["version"].(string)
	return s
}

// SetDisplayName sets the name field to a display name or a localization key.
func (d *Document) SetDisplayName(name string) {
	d.root["name"] = name
}

// SetVersion sets the version field.
func (d *Document) SetVersion(version string) {
	d.root["version"] = version
}

// backgroundParent returns the object holding the scripts key, creating
// intermediate objects when create is set.
func (d *Document) backgroundParent(create bool) (map[string]any, error) {
	keys := []string{"background"}
	if d.Kind == KindApp {
		keys = []string{"app", "background"}
	}

	cur := d.root
	for i, k := range keys {
		next, ok := cur[k]
		if !ok {
			if !create {
				return nil, nil
			}
			m := map[string]any{}
			cur[k] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("%s must be an object", strings.Join(keys[:i+1], "."))}
		}
		cur = m
	}
	return cur, nil
}

// BackgroundScripts returns the declared background scripts in order.
// A manifest without background scripts yields an empty list.
func (d *Document) BackgroundScripts() ([]string, error) {
	parent, err := d.backgroundParent(false)
	if err != nil || parent == nil {
		return nil, err
	}

	raw, ok := parent["scripts"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Reason: "background scripts must be an array"}
	}

	scripts := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("background script %v is not a string", item)}
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// SetBackgroundScripts replaces the background script list.
func (d *Document) SetBackgroundScripts(scripts []string) error {
	parent, err := d.backgroundParent(true)
	if err != nil {
		return err
	}

	list := make([]any, len(scripts))
	for i, s := range scripts {
		list[i] = s
	}
	parent["scripts"] = list
	return nil
}

// PartitionBackgroundScripts splits the background scripts into the ones
// fed to the compiler and the passthrough ones left untouched. A script is
// passthrough only when an entry of skip names its path, its base name, or
// a directory prefix ending in "/". Both results keep manifest order.
func (d *Document) PartitionBackgroundScripts(skip []string) (compiled, passthrough []string, err error) {
	scripts, err := d.BackgroundScripts()
	if err != nil {
		return nil, nil, err
	}

	for _, s := range scripts {
		if matchesSkip(s, skip) {
			passthrough = append(passthrough, s)
		} else {
			compiled = append(compiled, s)
		}
	}
	return compiled, passthrough, nil
}

func matchesSkip(script string, skip []string) bool {
	base := path.Base(script)
	for _, entry := range skip {
		switch {
		case entry == "":
		case entry == script, entry == base:
			return true
		case strings.HasSuffix(entry, "/") && strings.HasPrefix(script, entry):
			return true
		}
	}
	return false
}

// Bytes serializes the manifest with two-space indentation and a trailing
// newline. Keys are emitted in sorted order so output is reproducible.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write serializes the manifest to path.
func (d *Document) Write(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
