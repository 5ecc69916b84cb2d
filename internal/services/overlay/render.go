package overlay

import (
	"fmt"

	"github.com/sedhha/policy-mate-sub000/internal/services/annotations"
	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// RegionBox is one annotation's render instruction: a scaled rectangle, the
// CSS-level style class for the selected highlight treatment, and the
// placement decisions for its floating surfaces.
type RegionBox struct {
	ID          string
	Rect        geometry.Rect // scaled screen pixels
	StyleClass  string
	Resolved    bool
	ChipAnchor  geometry.Side
	PopoverSide geometry.Side
	PopoverLift float64 // negative translate-up to stay inside the container
}

// RenderPlan computes the positioned regions for the current page at the
// current scale. Geometry comes straight from the store; nothing here is
// authoritative state.
func (c *Controller) RenderPlan() []RegionBox {
	page := c.store.CurrentPage()
	scale := c.store.Scale()
	style := string(c.store.HighlightStyle())

	var boxes []RegionBox
	for _, ann := range c.store.ByPage(page) {
		scaled := ann.Rect.Scaled(scale)

		class := "highlight-" + style
		if ann.Resolved {
			class = fmt.Sprintf("highlight-%s highlight-%s--resolved", style, style)
		}

		boxes = append(boxes, RegionBox{
			ID:          ann.ID,
			Rect:        scaled,
			StyleClass:  class,
			Resolved:    ann.Resolved,
			ChipAnchor:  geometry.ChipAnchor(scaled.RightEdge(), c.overlayWidth),
			PopoverSide: geometry.PopoverSide(scaled.RightEdge(), c.viewport.ContainerWidth),
			PopoverLift: geometry.VerticalClampOffset(scaled.Y, c.viewport.ContainerHeight),
		})
	}
	return boxes
}

// createInput assembles the store input for a completed drag.
func createInput(page int, rect geometry.Rect, highlighted string) annotations.CreateInput {
	return annotations.CreateInput{
		Page:            page,
		Rect:            rect,
		HighlightedText: highlighted,
	}
}
