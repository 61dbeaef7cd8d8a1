// Package geom provides the small vector and transform toolkit used by
// the fusion engine: safe 3D direction math for calibration and 2D
// point helpers for canonical joint geometry.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D vector in world space.
type Vec = r3.Vec

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeNormalize returns the unit vector of v. A zero-magnitude vector
// normalizes to the zero vector rather than producing NaNs, so
// degenerate geometry degrades downstream results instead of crashing
// a live session.
func SafeNormalize(v Vec) Vec {
	n := r3.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r3.Scale(1/n, v)
}

// AngleBetweenDeg returns the angle between two vectors in degrees.
// Inputs are normalized first; the dot product is clamped to [-1, 1]
// before acos so floating-point drift never produces NaN. Zero vectors
// yield 90 degrees (a fully uninformative direction).
func AngleBetweenDeg(a, b Vec) float64 {
	ua := SafeNormalize(a)
	ub := SafeNormalize(b)
	dot := Clamp(r3.Dot(ua, ub), -1, 1)
	return math.Acos(dot) * 180 / math.Pi
}

// MeanVec returns the arithmetic mean of vs, or the zero vector when
// vs is empty.
func MeanVec(vs []Vec) Vec {
	if len(vs) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, v := range vs {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(vs)), sum)
}

// Point is a 2D point in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AngleAtDeg returns the interior angle at vertex b formed by segments
// b→a and b→c, in degrees. Coincident points yield 0.
func AngleAtDeg(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	n1 := math.Hypot(v1x, v1y)
	n2 := math.Hypot(v2x, v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}
	dot := Clamp((v1x*v2x+v1y*v2y)/(n1*n2), -1, 1)
	return math.Acos(dot) * 180 / math.Pi
}
