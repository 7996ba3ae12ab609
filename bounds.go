package banyan

import "math"

// Bounds is an axis-aligned bounding box accumulator. Reset it, grow it with
// points, frames, or other bounds, then read the result with Rectangle.
// The zero value is NOT ready to use; call Reset first.
type Bounds struct {
	minX, minY float64
	maxX, maxY float64
}

// Reset empties the accumulator.
func (b *Bounds) Reset() {
	b.minX = math.Inf(1)
	b.minY = math.Inf(1)
	b.maxX = math.Inf(-1)
	b.maxY = math.Inf(-1)
}

// IsEmpty reports whether nothing has been accumulated since the last Reset.
func (b *Bounds) IsEmpty() bool {
	return b.minX > b.maxX
}

// AddPoint grows the bounds to include the given point.
func (b *Bounds) AddPoint(p Vec2) {
	b.minX = min(b.minX, p.X)
	b.minY = min(b.minY, p.Y)
	b.maxX = max(b.maxX, p.X)
	b.maxY = max(b.maxY, p.Y)
}

// AddFrame grows the bounds to include the quad (x0,y0)-(x1,y1) transformed
// by the given matrix.
func (b *Bounds) AddFrame(m Matrix, x0, y0, x1, y1 float64) {
	b.AddPoint(m.Apply(Vec2{X: x0, Y: y0}))
	b.AddPoint(m.Apply(Vec2{X: x1, Y: y0}))
	b.AddPoint(m.Apply(Vec2{X: x0, Y: y1}))
	b.AddPoint(m.Apply(Vec2{X: x1, Y: y1}))
}

// AddRect grows the bounds to include an axis-aligned rectangle.
func (b *Bounds) AddRect(r Rect) {
	b.minX = min(b.minX, r.X)
	b.minY = min(b.minY, r.Y)
	b.maxX = max(b.maxX, r.X+r.Width)
	b.maxY = max(b.maxY, r.Y+r.Height)
}

// AddBounds grows the bounds to include another accumulator's extent.
// Empty bounds contribute nothing.
func (b *Bounds) AddBounds(o Bounds) {
	if o.IsEmpty() {
		return
	}
	b.minX = min(b.minX, o.minX)
	b.minY = min(b.minY, o.minY)
	b.maxX = max(b.maxX, o.maxX)
	b.maxY = max(b.maxY, o.maxY)
}

// AddBoundsMask grows the bounds by the intersection of o and mask.
// Contributes nothing when the intersection is empty.
func (b *Bounds) AddBoundsMask(o, mask Bounds) {
	minX := max(o.minX, mask.minX)
	minY := max(o.minY, mask.minY)
	maxX := min(o.maxX, mask.maxX)
	maxY := min(o.maxY, mask.maxY)
	if minX > maxX || minY > maxY {
		return
	}
	b.minX = min(b.minX, minX)
	b.minY = min(b.minY, minY)
	b.maxX = max(b.maxX, maxX)
	b.maxY = max(b.maxY, maxY)
}

// AddBoundsArea grows the bounds by the intersection of o and an axis-aligned
// clamp area. Contributes nothing when the intersection is empty.
func (b *Bounds) AddBoundsArea(o Bounds, area Rect) {
	minX := max(o.minX, area.X)
	minY := max(o.minY, area.Y)
	maxX := min(o.maxX, area.X+area.Width)
	maxY := min(o.maxY, area.Y+area.Height)
	if minX > maxX || minY > maxY {
		return
	}
	b.minX = min(b.minX, minX)
	b.minY = min(b.minY, minY)
	b.maxX = max(b.maxX, maxX)
	b.maxY = max(b.maxY, maxY)
}

// Rectangle returns the accumulated extent as a Rect.
// Empty bounds yield the zero Rect.
func (b *Bounds) Rectangle() Rect {
	if b.IsEmpty() {
		return Rect{}
	}
	return Rect{
		X:      b.minX,
		Y:      b.minY,
		Width:  b.maxX - b.minX,
		Height: b.maxY - b.minY,
	}
}
