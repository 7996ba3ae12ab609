package banyan

import "math"

// Transform holds a node's local transform properties (position, scale,
// rotation, skew, pivot) and the matrices derived from them. The local matrix
// is rebuilt lazily when a property changed since the last build; the world
// matrix is rebuilt when either the local matrix or the parent's world matrix
// changed. Version counters track both, so a clean UpdateTransform call costs
// two integer compares.
type Transform struct {
	position Vec2
	scale    Vec2
	pivot    Vec2
	skew     Vec2
	rotation float64

	localMatrix Matrix
	worldMatrix Matrix

	localVersion  int // bumped by property setters
	builtVersion  int // localVersion at the last local rebuild
	parentVersion int // parent worldVersion observed at the last world rebuild
	worldVersion  int // bumped whenever the world matrix is rebuilt
}

// NewTransform returns an identity transform (scale 1, everything else zero).
func NewTransform() Transform {
	return Transform{
		scale:         Vec2{X: 1, Y: 1},
		localMatrix:   IdentityMatrix(),
		worldMatrix:   IdentityMatrix(),
		parentVersion: -1,
	}
}

// --- Property accessors ---
// Setters report whether the value actually changed, so callers can decide
// whether to raise a change signal.

// Position returns the local position.
func (t *Transform) Position() Vec2 { return t.position }

// SetPosition sets the local position.
func (t *Transform) SetPosition(x, y float64) bool {
	if t.position.X == x && t.position.Y == y {
		return false
	}
	t.position = Vec2{X: x, Y: y}
	t.localVersion++
	return true
}

// Scale returns the local scale factors.
func (t *Transform) Scale() Vec2 { return t.scale }

// SetScale sets the local scale factors.
func (t *Transform) SetScale(sx, sy float64) bool {
	if t.scale.X == sx && t.scale.Y == sy {
		return false
	}
	t.scale = Vec2{X: sx, Y: sy}
	t.localVersion++
	return true
}

// Rotation returns the local rotation in radians.
func (t *Transform) Rotation() float64 { return t.rotation }

// SetRotation sets the local rotation in radians.
func (t *Transform) SetRotation(r float64) bool {
	if t.rotation == r {
		return false
	}
	t.rotation = r
	t.localVersion++
	return true
}

// Skew returns the skew angles in radians.
func (t *Transform) Skew() Vec2 { return t.skew }

// SetSkew sets the skew angles in radians.
func (t *Transform) SetSkew(sx, sy float64) bool {
	if t.skew.X == sx && t.skew.Y == sy {
		return false
	}
	t.skew = Vec2{X: sx, Y: sy}
	t.localVersion++
	return true
}

// Pivot returns the pivot point, the origin around which the node rotates
// and scales.
func (t *Transform) Pivot() Vec2 { return t.pivot }

// SetPivot sets the pivot point.
func (t *Transform) SetPivot(px, py float64) bool {
	if t.pivot.X == px && t.pivot.Y == py {
		return false
	}
	t.pivot = Vec2{X: px, Y: py}
	t.localVersion++
	return true
}

// LocalMatrix returns the local matrix as of the last UpdateTransform call.
func (t *Transform) LocalMatrix() Matrix { return t.localMatrix }

// WorldMatrix returns the world matrix as of the last UpdateTransform call.
func (t *Transform) WorldMatrix() Matrix { return t.worldMatrix }

// rebuildLocal recomputes the local matrix from the transform properties.
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func (t *Transform) rebuildLocal() {
	sx := t.scale.X
	sy := t.scale.Y

	sin, cos := math.Sincos(t.rotation)

	var tanSkewX, tanSkewY float64
	if t.skew.X != 0 {
		tanSkewX = math.Tan(t.skew.X)
	}
	if t.skew.Y != 0 {
		tanSkewY = math.Tan(t.skew.Y)
	}

	// After Scale * Translate(-pivot), then Skew:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := t.pivot.X
	py := t.pivot.Y
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate, then Translate(X, Y):
	t.localMatrix = Matrix{
		A:  cos*a - sin*b,
		B:  sin*a + cos*b,
		C:  cos*c - sin*d,
		D:  sin*c + cos*d,
		TX: cos*preTx - sin*preTy + t.position.X,
		TY: sin*preTx + cos*preTy + t.position.Y,
	}
}

// UpdateTransform rebuilds the local matrix if a property changed, then
// rebuilds the world matrix if either the local matrix or the parent's world
// matrix changed since the last call against this parent.
func (t *Transform) UpdateTransform(parent *Transform) {
	if t.localVersion != t.builtVersion {
		t.rebuildLocal()
		t.builtVersion = t.localVersion
		t.parentVersion = -1
	}
	if t.parentVersion != parent.worldVersion {
		t.worldMatrix = parent.worldMatrix.Append(t.localMatrix)
		t.parentVersion = parent.worldVersion
		t.worldVersion++
	}
}

// invalidateWorld forces the next UpdateTransform to rebuild the world matrix
// even against an unchanged parent. Needed after reparenting, because a new
// parent's version counter may coincide with the old parent's.
func (t *Transform) invalidateWorld() {
	t.parentVersion = -1
}
