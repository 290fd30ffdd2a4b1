package fuzzy

import "math"

// Term is one linguistic term of a variable.
type Term struct {
	Name  string    // stable identifier, e.g. "high"
	Label string    // display label
	Shape Trapezoid // membership function
}

// Variable is a linguistic variable: a named scalar described by an
// ordered list of overlapping terms. Degrees across terms need not sum to 1.
type Variable struct {
	Name  string
	Label string
	Terms []Term
}

// Memberships maps term name to membership degree.
type Memberships map[string]float64

// Get returns the degree for term, or 0 when absent.
func (m Memberships) Get(term string) float64 {
	return m[term]
}

// Point is one sample of a membership curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fuzzify evaluates x against every term.
func (v Variable) Fuzzify(x float64) Memberships {
	m := make(Memberships, len(v.Terms))
	for _, t := range v.Terms {
		m[t.Name] = t.Shape.Degree(x)
	}
	return m
}

// Term looks up a term by name.
func (v Variable) Term(name string) (Term, bool) {
	for _, t := range v.Terms {
		if t.Name == name {
			return t, true
		}
	}
	return Term{}, false
}

// TermNames returns the term names in declaration order.
func (v Variable) TermNames() []string {
	names := make([]string, len(v.Terms))
	for i, t := range v.Terms {
		names[i] = t.Name
	}
	return names
}

// Dominant returns the term with the highest degree in m. Ties go to the
// term declared first.
func (v Variable) Dominant(m Memberships) (string, float64) {
	best, bestDeg := "", -1.0
	for _, t := range v.Terms {
		if d := m[t.Name]; d > bestDeg {
			best, bestDeg = t.Name, d
		}
	}
	if bestDeg < 0 {
		return "", 0
	}
	return best, bestDeg
}

// Centroid defuzzifies m using area-weighted plateau centres.
// Returns 0 when every degree is zero.
func (v Variable) Centroid(m Memberships) float64 {
	var area, weighted float64
	for _, t := range v.Terms {
		mu := m[t.Name]
		if mu <= 0 {
			continue
		}
		a := mu * (t.Shape.D - t.Shape.A) / 2
		weighted += t.Shape.Centre() * a
		area += a
	}
	if area == 0 {
		return 0
	}
	return weighted / area
}

// Curve samples the membership function of term at n evenly spaced points
// over [0, 1]. Returns nil for an unknown term or n < 2.
func (v Variable) Curve(term string, n int) []Point {
	t, ok := v.Term(term)
	if !ok || n < 2 {
		return nil
	}
	pts := make([]Point, n)
	for i := range n {
		x := float64(i) / float64(n-1)
		pts[i] = Point{X: x, Y: t.Shape.Degree(x)}
	}
	return pts
}

// Curves samples every term; see Curve.
func (v Variable) Curves(n int) map[string][]Point {
	out := make(map[string][]Point, len(v.Terms))
	for _, t := range v.Terms {
		out[t.Name] = v.Curve(t.Name, n)
	}
	return out
}

// Clamp01 limits x to [0, 1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Round2 rounds to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
