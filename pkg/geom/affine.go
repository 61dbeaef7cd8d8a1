package geom

import "errors"

// ErrSingularTransform indicates an affine transform with no inverse.
// This only arises from malformed configuration (for example a zero
// scale), never from normal frame processing, so it propagates as a
// hard failure instead of degrading silently.
var ErrSingularTransform = errors.New("geom: singular affine transform")

// Affine is a 2D affine transform mapping (x, y) to
// (A*x + C*y + Tx, B*x + D*y + Ty). It converts between provider
// image spaces and the canonical normalized frame.
type Affine struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A: 1, D: 1}
}

// ScaleTranslate returns a transform that scales by (sx, sy) then
// translates by (tx, ty).
func ScaleTranslate(sx, sy, tx, ty float64) Affine {
	return Affine{A: sx, D: sy, Tx: tx, Ty: ty}
}

// Apply transforms the point p.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.Tx,
		Y: t.B*p.X + t.D*p.Y + t.Ty,
	}
}

// Invert returns the inverse transform, or ErrSingularTransform when
// the linear part is not invertible.
func (t Affine) Invert() (Affine, error) {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return Affine{}, ErrSingularTransform
	}
	inv := Affine{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.Tx = -(inv.A*t.Tx + inv.C*t.Ty)
	inv.Ty = -(inv.B*t.Tx + inv.D*t.Ty)
	return inv, nil
}
