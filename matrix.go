package banyan

import "errors"

// ErrDegenerateTransform is returned when a world matrix cannot be inverted
// (zero determinant, e.g. a zero scale somewhere in the ancestor chain).
var ErrDegenerateTransform = errors.New("banyan: transform is not invertible")

// Matrix is a 2D affine transformation.
//
//	Matrix layout:
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
type Matrix struct {
	A, B, C, D, TX, TY float64
}

// IdentityMatrix returns the identity transformation.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// Apply transforms a point by the matrix.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.TX,
		Y: m.B*p.X + m.D*p.Y + m.TY,
	}
}

// Append composes two matrices: the returned matrix applies o first, then m.
// For transform propagation this is parentWorld.Append(childLocal).
func (m Matrix) Append(o Matrix) Matrix {
	return Matrix{
		A:  m.A*o.A + m.C*o.B,
		B:  m.B*o.A + m.D*o.B,
		C:  m.A*o.C + m.C*o.D,
		D:  m.B*o.C + m.D*o.D,
		TX: m.A*o.TX + m.C*o.TY + m.TX,
		TY: m.B*o.TX + m.D*o.TY + m.TY,
	}
}

// determinant epsilon below which a matrix is treated as singular.
const matrixEpsilon = 1e-12

// Invert returns the inverse matrix, or ErrDegenerateTransform if the matrix
// is singular. No fallback value is substituted; the zero Matrix accompanies
// the error.
func (m Matrix) Invert() (Matrix, error) {
	det := m.A*m.D - m.C*m.B
	if det > -matrixEpsilon && det < matrixEpsilon {
		return Matrix{}, ErrDegenerateTransform
	}
	invDet := 1.0 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	return Matrix{
		A: a, B: b, C: c, D: d,
		TX: -(a*m.TX + c*m.TY),
		TY: -(b*m.TX + d*m.TY),
	}, nil
}

// ApplyInverse transforms a point by the inverse of the matrix.
// Returns ErrDegenerateTransform if the matrix is singular.
func (m Matrix) ApplyInverse(p Vec2) (Vec2, error) {
	inv, err := m.Invert()
	if err != nil {
		return Vec2{}, err
	}
	return inv.Apply(p), nil
}
