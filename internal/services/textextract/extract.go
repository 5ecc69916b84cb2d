// Package textextract pulls the text under an annotation region out of a
// rendered page's text layer.
package textextract

import (
	"strings"

	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// Extractor collects text under annotation regions.
type Extractor struct {
	provider TextSpanProvider
}

// NewExtractor creates an extractor over a text span provider.
func NewExtractor(provider TextSpanProvider) *Extractor {
	return &Extractor{provider: provider}
}

// TextUnderRegion returns the text of every span intersecting the region,
// concatenated in provider order with whitespace runs collapsed. The region
// must be in scaled coordinates to match the live spans. Extraction is best
// effort: any provider failure yields an empty string.
func (e *Extractor) TextUnderRegion(pageID int, region geometry.Rect) string {
	if e.provider == nil {
		return ""
	}

	spans, err := e.provider.TextSpans(pageID)
	if err != nil {
		return ""
	}

	var parts []string
	for _, span := range spans {
		if span.Box.Intersects(region) {
			parts = append(parts, span.Text)
		}
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
