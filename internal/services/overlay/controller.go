// Package overlay is the interaction controller for the annotation layer:
// it turns pointer events over a rendered page into the drag-to-create
// gesture, drives the transient popover state, and produces the render plan
// for existing annotations.
package overlay

import (
	"context"
	"log"

	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// State is the drag gesture state.
type State int

const (
	StateIdle State = iota
	StateDrawing
)

// Viewport describes the rendered page element's placement on screen. The
// overlay width is measured after layout and set separately, since it is
// not known synchronously at mount.
type Viewport struct {
	PageLeft        float64
	PageTop         float64
	ContainerWidth  float64
	ContainerHeight float64
}

// Controller drives the annotation overlay for the current page.
type Controller struct {
	store     AnnotationStore
	extractor TextExtractor
	alerter   Alerter

	state        State
	dragStart    geometry.Point
	dragRect     geometry.Rect
	loading      bool
	viewport     Viewport
	overlayWidth float64
}

// NewController creates an overlay controller.
func NewController(store AnnotationStore, extractor TextExtractor, alerter Alerter) *Controller {
	return &Controller{
		store:     store,
		extractor: extractor,
		alerter:   alerter,
	}
}

// SetViewport records the rendered page element's current placement.
func (c *Controller) SetViewport(v Viewport) {
	c.viewport = v
}

// SetOverlayWidth records the overlay's measured width, captured after
// layout.
func (c *Controller) SetOverlayWidth(w float64) {
	c.overlayWidth = w
}

// State returns the current drag state.
func (c *Controller) State() State {
	return c.state
}

// DragRect returns the in-progress drag rectangle in page units.
func (c *Controller) DragRect() geometry.Rect {
	return c.dragRect
}

// PointerDown starts a drag gesture, unless a popover is open or the
// overlay is loading.
func (c *Controller) PointerDown(clientX, clientY float64) {
	if c.state != StateIdle || c.loading || c.store.HasOpenSurface() {
		return
	}
	c.dragStart = geometry.ToPage(clientX, clientY, c.viewport.PageLeft, c.viewport.PageTop, c.store.Scale())
	c.dragRect = geometry.Rect{X: c.dragStart.X, Y: c.dragStart.Y}
	c.state = StateDrawing
}

// PointerMove updates the drag rectangle while drawing.
func (c *Controller) PointerMove(clientX, clientY float64) {
	if c.state != StateDrawing {
		return
	}
	current := geometry.ToPage(clientX, clientY, c.viewport.PageLeft, c.viewport.PageTop, c.store.Scale())
	c.dragRect = geometry.FromDrag(c.dragStart, current)
}

// PointerUp finishes the gesture. Sub-threshold drags are discarded as
// accidental clicks; otherwise the text under the region is extracted, the
// annotation is created, and the creation-choice popover opens for the new
// id. Creation failures surface through a blocking alert.
func (c *Controller) PointerUp(ctx context.Context) {
	if c.state != StateDrawing {
		return
	}
	rect := c.dragRect
	c.state = StateIdle
	c.dragRect = geometry.Rect{}

	if rect.BelowMinSize() {
		return
	}

	page := c.store.CurrentPage()
	scale := c.store.Scale()

	var highlighted string
	if c.extractor != nil {
		// The live text layer is laid out in scaled coordinates
		highlighted = c.extractor.TextUnderRegion(page, rect.Scaled(scale))
	}

	c.loading = true
	id, err := c.store.Create(ctx, createInput(page, rect, highlighted))
	c.loading = false

	if err != nil {
		log.Printf("[ERROR] Creating annotation failed: %v", err)
		if c.alerter != nil {
			c.alerter.Alert("Could not create annotation: " + err.Error())
		}
		return
	}
	c.store.OpenCreationMenu(id)
}

// BackgroundClick closes whichever transient surface is open. It does
// nothing while a drag is in progress.
func (c *Controller) BackgroundClick() {
	if c.state != StateIdle {
		return
	}
	c.store.CloseTransient()
}

// DoubleClick deletes the annotation under the pointer immediately. There
// is deliberately no confirmation step; failures are logged, and the
// annotation stays until the backend confirms.
func (c *Controller) DoubleClick(ctx context.Context, annotationID string) {
	if err := c.store.Delete(ctx, annotationID); err != nil {
		log.Printf("[ERROR] Deleting annotation %s failed: %v", annotationID, err)
	}
}
