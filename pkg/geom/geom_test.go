package geom

import (
	"errors"
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestSafeNormalize_ZeroVector(t *testing.T) {
	v := SafeNormalize(Vec{})
	if v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Errorf("Zero vector should normalize to zero, got %+v", v)
	}
}

func TestSafeNormalize_UnitLength(t *testing.T) {
	v := SafeNormalize(Vec{X: 3, Y: 4, Z: 0})
	if !floatEquals(v.X, 0.6) || !floatEquals(v.Y, 0.8) {
		t.Errorf("Expected (0.6, 0.8, 0), got %+v", v)
	}
}

func TestAngleBetweenDeg(t *testing.T) {
	cases := []struct {
		name string
		a, b Vec
		want float64
	}{
		{"identical", Vec{Z: 1}, Vec{Z: 1}, 0},
		{"orthogonal", Vec{X: 1}, Vec{Y: 1}, 90},
		{"opposite", Vec{X: 1}, Vec{X: -1}, 180},
		{"scaled identical", Vec{X: 2, Y: 2}, Vec{X: 5, Y: 5}, 0},
	}
	for _, tc := range cases {
		got := AngleBetweenDeg(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAngleBetweenDeg_NeverNaN(t *testing.T) {
	// Near-parallel vectors can push the dot product past 1.0 in
	// floating point; the clamp must keep acos in its domain.
	a := Vec{X: 0.1234567, Y: 0.7654321, Z: 0.5555555}
	if got := AngleBetweenDeg(a, a); math.IsNaN(got) {
		t.Error("Angle between identical vectors returned NaN")
	}
	if got := AngleBetweenDeg(Vec{}, Vec{X: 1}); math.IsNaN(got) {
		t.Error("Angle with zero vector returned NaN")
	}
}

func TestMeanVec(t *testing.T) {
	m := MeanVec([]Vec{{X: 1}, {X: 3}, {Y: 2}})
	if !floatEquals(m.X, 4.0/3) || !floatEquals(m.Y, 2.0/3) {
		t.Errorf("MeanVec: got %+v", m)
	}
	if z := MeanVec(nil); z != (Vec{}) {
		t.Errorf("MeanVec of empty should be zero, got %+v", z)
	}
}

func TestAngleAtDeg(t *testing.T) {
	// Right angle at origin
	got := AngleAtDeg(Point{X: 1}, Point{}, Point{Y: 1})
	if math.Abs(got-90) > 1e-9 {
		t.Errorf("Right angle: got %v, want 90", got)
	}

	// Straight line
	got = AngleAtDeg(Point{X: -1}, Point{}, Point{X: 1})
	if math.Abs(got-180) > 1e-9 {
		t.Errorf("Straight line: got %v, want 180", got)
	}

	// Coincident points degrade to 0
	if got = AngleAtDeg(Point{}, Point{}, Point{X: 1}); got != 0 {
		t.Errorf("Coincident points: got %v, want 0", got)
	}
}

func TestAffine_RoundTrip(t *testing.T) {
	tr := ScaleTranslate(2, 3, 0.5, -1.25)
	inv, err := tr.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}

	p := Point{X: 0.37, Y: 0.81}
	back := inv.Apply(tr.Apply(p))
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("Round trip: got %+v, want %+v", back, p)
	}
}

func TestAffine_SingularInvert(t *testing.T) {
	tr := ScaleTranslate(0, 1, 0, 0)
	_, err := tr.Invert()
	if !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}
}

func TestMidpoint(t *testing.T) {
	m := Midpoint(Point{X: 0, Y: 0}, Point{X: 1, Y: 0.5})
	if !floatEquals(m.X, 0.5) || !floatEquals(m.Y, 0.25) {
		t.Errorf("Midpoint: got %+v", m)
	}
}
