// Package page extracts and replaces the marked script include region of
// HTML entry points.
package page

import (
	"fmt"
	"html"
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

// Default sentinel comments delimiting the include region.
const (
	DefaultOpenMarker  = "<!-- JS -->"
	DefaultCloseMarker = "<!-- /JS -->"
)

// Markers delimit the include region.
type Markers struct {
	Open  string
	Close string
}

// DefaultMarkers returns the standard JS include markers.
func DefaultMarkers() Markers {
	return Markers{Open: DefaultOpenMarker, Close: DefaultCloseMarker}
}

// Region is the located include region.
type Region struct {
	// Start is the byte offset of the open marker.
	Start int

	// End is the byte offset just past the close marker.
	End int

	// Scripts are the src attributes of script tags inside the region,
	// in document order.
	Scripts []string
}

// MissingIncludeRegionError indicates the document does not contain
// exactly one include region.
type MissingIncludeRegionError struct {
	// Opens and Closes count the markers found.
	Opens  int
	Closes int

	// Document names the HTML file, when known.
	Document string
}

func (e *MissingIncludeRegionError) Error() string {
	doc := e.Document
	if doc == "" {
		doc = "document"
	}
	switch {
	case e.Opens == 0 && e.Closes == 0:
		return fmt.Sprintf("%s: no JS include region found", doc)
	case e.Opens != e.Closes:
		return fmt.Sprintf("%s: unbalanced JS include markers (%d open, %d close)", doc, e.Opens, e.Closes)
	case e.Opens > 1:
		return fmt.Sprintf("%s: %d JS include regions found, expected exactly one", doc, e.Opens)
	default:
		return fmt.Sprintf("%s: JS include close marker precedes open marker", doc)
	}
}

// Unwrap returns the validation sentinel.
func (e *MissingIncludeRegionError) Unwrap() error {
	return oerrors.ErrValidation
}

// Locate finds the unique include region and the scripts it references.
func (m Markers) Locate(doc string) (*Region, error) {
	opens := strings.Count(doc, m.Open)
	closes := strings.Count(doc, m.Close)
	if opens != 1 || closes != 1 {
		return nil, &MissingIncludeRegionError{Opens: opens, Closes: closes}
	}

	start := strings.Index(doc, m.Open)
	closeAt := strings.Index(doc, m.Close)
	if closeAt < start+len(m.Open) {
		return nil, &MissingIncludeRegionError{Opens: opens, Closes: closes}
	}

	scripts, err := scriptSources(doc[start+len(m.Open) : closeAt])
	if err != nil {
		return nil, err
	}

	return &Region{
		Start:   start,
		End:     closeAt + len(m.Close),
		Scripts: scripts,
	}, nil
}

// ExtractRegion returns the script paths referenced inside the include
// region, in document order.
func (m Markers) ExtractRegion(doc string) ([]string, error) {
	r, err := m.Locate(doc)
	if err != nil {
		return nil, err
	}
	return r.Scripts, nil
}

// ReplaceRegion replaces the include region with a single include of
// bundle. Bytes outside the region are returned unchanged. The markers are
// kept around the new tag so the result still has exactly one region.
func (m Markers) ReplaceRegion(doc, bundle string) (string, error) {
	r, err := m.Locate(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(doc))
	b.WriteString(doc[:r.Start])
	b.WriteString(m.Open)
	b.WriteString(ScriptInclude(bundle))
	b.WriteString(m.Close)
	b.WriteString(doc[r.End:])
	return b.String(), nil
}

// ExtractRegion uses the default markers.
func ExtractRegion(doc string) ([]string, error) {
	return DefaultMarkers().ExtractRegion(doc)
}

// ReplaceRegion uses the default markers.
func ReplaceRegion(doc, bundle string) (string, error) {
	return DefaultMarkers().ReplaceRegion(doc, bundle)
}

// ScriptInclude renders the script tag referencing a compiled bundle.
func ScriptInclude(src string) string {
	return `<script src="` + html.EscapeString(src) + `" type="text/javascript"></script>`
}

// scriptSources tokenizes fragment and collects script src attributes.
func scriptSources(fragment string) ([]string, error) {
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	var scripts []string
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenizing include region: %w", err)
			}
			return scripts, nil
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Script {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Namespace == "" && strings.EqualFold(attr.Key, "src") && attr.Val != "" {
					scripts = append(scripts, attr.Val)
					break
				}
			}
		}
	}
}
