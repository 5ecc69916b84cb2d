package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPage(t *testing.T) {
	tests := []struct {
		name               string
		clientX, clientY   float64
		pageLeft, pageTop  float64
		scale              float64
		expectedX, expectedY float64
	}{
		{
			name:    "unit scale",
			clientX: 110, clientY: 220,
			pageLeft: 10, pageTop: 20,
			scale:     1.0,
			expectedX: 100, expectedY: 200,
		},
		{
			name:    "zoomed in",
			clientX: 210, clientY: 420,
			pageLeft: 10, pageTop: 20,
			scale:     2.0,
			expectedX: 100, expectedY: 200,
		},
		{
			name:    "zoomed out",
			clientX: 60, clientY: 120,
			pageLeft: 10, pageTop: 20,
			scale:     0.5,
			expectedX: 100, expectedY: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ToPage(tt.clientX, tt.clientY, tt.pageLeft, tt.pageTop, tt.scale)
			assert.InDelta(t, tt.expectedX, p.X, 1e-9)
			assert.InDelta(t, tt.expectedY, p.Y, 1e-9)
		})
	}
}

func TestRectScaled(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 50, Height: 25}

	t.Run("multiplies every field by the scale", func(t *testing.T) {
		for _, scale := range []float64{0.5, 1.0, 1.25, 2.0, 3.7} {
			s := r.Scaled(scale)
			assert.InDelta(t, 10*scale, s.X, 1e-9)
			assert.InDelta(t, 20*scale, s.Y, 1e-9)
			assert.InDelta(t, 50*scale, s.Width, 1e-9)
			assert.InDelta(t, 25*scale, s.Height, 1e-9)
		}
	})

	t.Run("stored geometry is never mutated by scaling", func(t *testing.T) {
		_ = r.Scaled(2.0)
		_ = r.Scaled(0.25)
		assert.Equal(t, Rect{X: 10, Y: 20, Width: 50, Height: 25}, r)
	})

	t.Run("round trip through two scales agrees", func(t *testing.T) {
		s1 := r.Scaled(1.5)
		s2 := r.Scaled(3.0)
		assert.InDelta(t, s1.X*2, s2.X, 1e-9)
		assert.InDelta(t, s1.Width*2, s2.Width, 1e-9)
	})
}

func TestFromDrag(t *testing.T) {
	t.Run("normalizes any drag direction", func(t *testing.T) {
		start := Point{X: 50, Y: 60}
		end := Point{X: 10, Y: 20}

		r := FromDrag(start, end)
		assert.Equal(t, Rect{X: 10, Y: 20, Width: 40, Height: 40}, r)

		// Same rect regardless of which corner the drag started from
		assert.Equal(t, r, FromDrag(end, start))
		assert.Equal(t, r, FromDrag(Point{X: 10, Y: 60}, Point{X: 50, Y: 20}))
	})

	t.Run("zero-length drag yields empty rect", func(t *testing.T) {
		p := Point{X: 5, Y: 5}
		r := FromDrag(p, p)
		assert.Zero(t, r.Width)
		assert.Zero(t, r.Height)
	})
}

func TestBelowMinSize(t *testing.T) {
	assert.True(t, Rect{Width: 4.9, Height: 100}.BelowMinSize())
	assert.True(t, Rect{Width: 100, Height: 4.9}.BelowMinSize())
	assert.True(t, Rect{Width: 1, Height: 1}.BelowMinSize())
	assert.False(t, Rect{Width: 5, Height: 5}.BelowMinSize())
	assert.False(t, Rect{Width: 50, Height: 20}.BelowMinSize())
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	assert.True(t, base.Intersects(Rect{X: 25, Y: 25, Width: 10, Height: 10}))
	assert.True(t, base.Intersects(Rect{X: 0, Y: 0, Width: 100, Height: 100}))
	assert.False(t, base.Intersects(Rect{X: 31, Y: 10, Width: 5, Height: 5}))
	// Touching edges do not count as overlap
	assert.False(t, base.Intersects(Rect{X: 30, Y: 10, Width: 5, Height: 5}))
}
