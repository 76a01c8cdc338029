package problem

import "fmt"

// Sphere is the unconstrained sum-of-squares problem over [-bound, bound]^n.
// Minimum 0 at the origin.
type Sphere struct {
	Dim   int
	Bound float64
}

func (s Sphere) Name() string                    { return "sphere" }
func (s Sphere) Dimension() int                  { return s.Dim }
func (s Sphere) ObjectiveCount() int             { return 1 }
func (s Sphere) ConstraintCount() int            { return 0 }
func (s Sphere) EqualityConstraintCount() int    { return 0 }
func (s Sphere) ConstraintTolerances() []float64 { return nil }
func (s Sphere) Stochastic() bool                { return false }

func (s Sphere) Bounds() (lb, ub []float64) {
	lb = make([]float64, s.Dim)
	ub = make([]float64, s.Dim)
	for i := range lb {
		lb[i] = -s.Bound
		ub[i] = s.Bound
	}
	return lb, ub
}

func (s Sphere) Fitness(x []float64) ([]float64, error) {
	if len(x) != s.Dim {
		return nil, fmt.Errorf("sphere: want dimension %d, got %d", s.Dim, len(x))
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return []float64{sum}, nil
}

// HockSchittkowski71 is the classic four-dimensional constrained test
// problem: minimize x1*x4*(x1+x2+x3) + x3 subject to one equality
// (sum of squares equals 40) and one inequality (product of the variables
// at least 25). Constraints are reported equality-first, inequalities in
// the g(x) <= 0 convention. Known optimum about 17.014.
type HockSchittkowski71 struct {
	// Tolerance applies to both constraints; zero means exact.
	Tolerance float64
}

func (h HockSchittkowski71) Name() string                 { return "hs71" }
func (h HockSchittkowski71) Dimension() int               { return 4 }
func (h HockSchittkowski71) ObjectiveCount() int          { return 1 }
func (h HockSchittkowski71) ConstraintCount() int         { return 2 }
func (h HockSchittkowski71) EqualityConstraintCount() int { return 1 }
func (h HockSchittkowski71) Stochastic() bool             { return false }

func (h HockSchittkowski71) ConstraintTolerances() []float64 {
	return []float64{h.Tolerance, h.Tolerance}
}

func (h HockSchittkowski71) Bounds() (lb, ub []float64) {
	return []float64{1, 1, 1, 1}, []float64{5, 5, 5, 5}
}

func (h HockSchittkowski71) Fitness(x []float64) ([]float64, error) {
	if len(x) != 4 {
		return nil, fmt.Errorf("hs71: want dimension 4, got %d", len(x))
	}
	obj := x[0]*x[3]*(x[0]+x[1]+x[2]) + x[2]
	eq := x[0]*x[0] + x[1]*x[1] + x[2]*x[2] + x[3]*x[3] - 40
	ineq := 25 - x[0]*x[1]*x[2]*x[3]
	return []float64{obj, eq, ineq}, nil
}

// ByName returns a benchmark problem for the CLI and HTTP surfaces.
func ByName(name string, dim int) (Problem, error) {
	switch name {
	case "sphere":
		if dim <= 0 {
			dim = 2
		}
		return Sphere{Dim: dim, Bound: 5}, nil
	case "hs71":
		return HockSchittkowski71{Tolerance: 1e-8}, nil
	default:
		return nil, fmt.Errorf("unknown benchmark problem %q", name)
	}
}

var (
	_ Problem = Sphere{}
	_ Problem = HockSchittkowski71{}
)
