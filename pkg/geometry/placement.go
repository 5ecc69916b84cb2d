package geometry

const (
	// PopoverWidth is the fixed width of the bookmark/comment popover.
	PopoverWidth = 260.0
	// PopoverMargin is the gap kept between the annotation and the popover.
	PopoverMargin = 8.0
	// PanelEstimatedHeight is the estimated popover panel height used for
	// vertical clamping before the panel has been measured.
	PanelEstimatedHeight = 220.0
	// ChipReservedWidth is the horizontal room the action chip needs on the
	// annotation's right side before it flips to anchor leftward.
	ChipReservedWidth = 180.0
)

// Side is a horizontal placement choice for a popover or chip.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// PopoverSide chooses which side of an annotation a popover opens on.
// rightEdge is the annotation's right edge in scaled (screen) coordinates,
// containerWidth the page container's width. Placement is "right" iff the
// remaining horizontal room fits the popover plus its margin.
func PopoverSide(rightEdge, containerWidth float64) Side {
	if containerWidth-rightEdge >= PopoverWidth+PopoverMargin {
		return SideRight
	}
	return SideLeft
}

// VerticalClampOffset returns the vertical translation, in screen pixels,
// that keeps a popover of the estimated panel height inside the container.
// The result is negative (shift upward) when the panel would overflow the
// bottom edge, and zero otherwise. top is in scaled coordinates.
func VerticalClampOffset(top, containerHeight float64) float64 {
	overflow := top + PanelEstimatedHeight - containerHeight
	if overflow > 0 {
		return -overflow
	}
	return 0
}

// ChipAnchor chooses the action chip's anchor side. rightEdge is the
// annotation's right edge in scaled coordinates; overlayWidth is the
// overlay's measured width, captured after layout since it is not known
// synchronously at mount. The chip flips left when fewer than
// ChipReservedWidth pixels remain to its right.
func ChipAnchor(rightEdge, overlayWidth float64) Side {
	if overlayWidth-rightEdge < ChipReservedWidth {
		return SideLeft
	}
	return SideRight
}
