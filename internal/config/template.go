package config

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateOptions seeds the generated project file.
type TemplateOptions struct {
	// Name is the extension display name.
	Name string

	// Files seeds the static copy list.
	Files []string

	// Pages seeds the page list.
	Pages []string
}

// RenderTemplate renders a commented extpack.yaml populated with defaults.
func RenderTemplate(opts TemplateOptions) ([]byte, error) {
	d := DefaultConfig()

	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node, comment string) {
		k := &yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: comment}
		root.Content = append(root.Content, k, value)
	}

	add("name", str(opts.Name),
		"Display name written into the manifest and used as the output\n"+
			"directory prefix. Defaults to the manifest name.")
	add("localizedName", boolean(false),
		"Write __MSG_extName__ instead of name and let locales supply it.")
	add("outputDir", str(d.OutputDir), "Build output, relative to the source directory.")
	add("manifest", str(d.Manifest), "")
	add("files", strSeq(opts.Files), "Files copied verbatim into the build directory.")
	add("skipFiles", strSeq(nil),
		"Scripts left out of compilation by base name (pre-compiled or third party).")
	add("externsUrls", strSeq(nil), "Externs the compiler service fetches for every unit.")

	background := mapping(
		"level", str(""), "none, whitespace, simple or advanced",
		"bundle", str(d.Background.Bundle), "",
		"passthrough", strSeq(d.Background.Passthrough),
		"Manifest scripts kept as-is and loaded before the bundle.",
	)
	add("background", background, "Background scripts listed in the manifest.")

	pages := &yaml.Node{Kind: yaml.SequenceNode}
	for i, html := range opts.Pages {
		pages.Content = append(pages.Content, mapping(
			"html", str(html), "",
			"bundle", str(templateBundle(i, html)), "",
			"level", str(""), "",
		))
	}
	add("pages", pages,
		"Pages whose <!-- JS --> ... <!-- /JS --> region is compiled into one bundle.")

	add("compiler", mapping(
		"endpoint", str(d.Compiler.Endpoint), "",
		"language", str(d.Compiler.Language), "",
		"timeout", str(d.Compiler.Timeout), "",
		"retries", integer(d.Compiler.Retries), "",
		"parallelism", integer(d.Compiler.Parallelism), "Concurrent submissions.",
	), "Remote compilation service.")

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "extpack project configuration",
		Content:     []*yaml.Node{root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	return buf.Bytes(), nil
}

// templateBundle gives every page after the first its own bundle so enabling
// several levels does not collide.
func templateBundle(i int, html string) string {
	if i == 0 {
		return DefaultPageBundle
	}
	stem := strings.TrimSuffix(path.Base(html), path.Ext(html))
	return "js/" + stem + ".all.js"
}

func str(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if s == "" {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func boolean(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func integer(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func strSeq(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	if len(items) == 0 {
		n.Style = yaml.FlowStyle
	}
	for _, item := range items {
		n.Content = append(n.Content, str(item))
	}
	return n
}

// mapping builds a mapping node from key, value, comment triples.
func mapping(kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+2 < len(kv); i += 3 {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: kv[i].(string)}
		value := kv[i+1].(*yaml.Node)
		if c := kv[i+2].(string); c != "" {
			if value.Kind == yaml.ScalarNode {
				value.LineComment = c
			} else {
				key.HeadComment = c
			}
		}
		n.Content = append(n.Content, key, value)
	}
	return n
}
