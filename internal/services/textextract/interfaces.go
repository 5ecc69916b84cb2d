package textextract

import "github.com/sedhha/policy-mate-sub000/pkg/geometry"

// Span is one rendered text-layer fragment with its bounding box relative
// to the page origin, in scaled (screen) coordinates.
type Span struct {
	Text string
	Box  geometry.Rect
}

// TextSpanProvider exposes the rendered text layer of a page. Implemented
// against whatever PDF renderer is in use; the extraction algorithm never
// touches the renderer directly.
type TextSpanProvider interface {
	TextSpans(pageID int) ([]Span, error)
}
