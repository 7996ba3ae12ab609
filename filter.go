package banyan

import "github.com/hajimehoshi/ebiten/v2"

// Filter is the interface for visual effects applied to a node's rendered
// output. Filters are opaque to the scene graph: nodes carry them, the render
// pipeline applies them.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to
	// accommodate the effect. Zero means no padding.
	Padding() int
}

// ColorScaleFilter multiplies every pixel by a constant RGBA factor.
type ColorScaleFilter struct {
	R, G, B, A float32
}

// NewColorScaleFilter creates a filter scaling all four channels by the given
// factors.
func NewColorScaleFilter(r, g, b, a float32) *ColorScaleFilter {
	return &ColorScaleFilter{R: r, G: g, B: b, A: a}
}

// Apply draws src into dst with the color scale applied.
func (f *ColorScaleFilter) Apply(src, dst *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.Scale(f.R, f.G, f.B, f.A)
	dst.DrawImage(src, op)
}

// Padding returns 0: color scaling needs no extra room.
func (f *ColorScaleFilter) Padding() int {
	return 0
}
