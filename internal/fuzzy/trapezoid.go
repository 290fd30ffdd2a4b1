package fuzzy

import "fmt"

// Trapezoid is a trapezoidal membership function with breakpoints
// A ≤ B ≤ C ≤ D. A triangle is the special case B == C.
type Trapezoid struct {
	A, B, C, D float64
}

// NewTrapezoid builds a Trapezoid from 3 or 4 ordered breakpoints.
// The 3-point form [a, b, c] is read as a trapezoid whose right
// shoulder collapses onto c (d = c).
func NewTrapezoid(points ...float64) (Trapezoid, error) {
	var t Trapezoid
	switch len(points) {
	case 3:
		t = Trapezoid{A: points[0], B: points[1], C: points[2], D: points[2]}
	case 4:
		t = Trapezoid{A: points[0], B: points[1], C: points[2], D: points[3]}
	default:
		return Trapezoid{}, fmt.Errorf("membership function needs 3 or 4 points, got %d", len(points))
	}
	if t.A > t.B || t.B > t.C || t.C > t.D {
		return Trapezoid{}, fmt.Errorf("membership points out of order: %v", points)
	}
	return t, nil
}

// MustTrapezoid is NewTrapezoid for static tables; it panics on bad input.
func MustTrapezoid(points ...float64) Trapezoid {
	t, err := NewTrapezoid(points...)
	if err != nil {
		panic(err)
	}
	return t
}

// Degree returns the membership degree of x, always in [0, 1].
//
// The plateau [B, C] is checked first, so a degenerate shoulder (A == B or
// C == D) yields 1 at the shared boundary instead of a zero-width ramp.
func (t Trapezoid) Degree(x float64) float64 {
	switch {
	case x >= t.B && x <= t.C:
		return 1
	case x <= t.A || x >= t.D:
		return 0
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.D - x) / (t.D - t.C)
	}
}

// Centre is the midpoint of the plateau.
func (t Trapezoid) Centre() float64 {
	return (t.B + t.C) / 2
}

// Points returns the breakpoints in order.
func (t Trapezoid) Points() [4]float64 {
	return [4]float64{t.A, t.B, t.C, t.D}
}
