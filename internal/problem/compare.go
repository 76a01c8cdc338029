package problem

import "gonum.org/v1/gonum/floats"

// Violations counts the constraints of fitness f that exceed their
// tolerance and returns the Euclidean norm of the excesses. The constraint
// block of f starts at index 1, with the first nec entries equality
// constraints (violated when |g| > tol) and the rest inequalities
// (violated when g > tol).
func Violations(f []float64, nec int, tol []float64) (count int, norm float64) {
	excess := make([]float64, 0, len(f)-1)
	for i, g := range f[1:] {
		v := g
		if i < nec && v < 0 {
			v = -v
		}
		if v > tol[i] {
			count++
			excess = append(excess, v-tol[i])
		}
	}
	return count, floats.Norm(excess, 2)
}

// Feasible reports whether fitness f violates no constraint within the
// given tolerances.
func Feasible(f []float64, nec int, tol []float64) bool {
	n, _ := Violations(f, nec, tol)
	return n == 0
}

// Less reports whether fitness f1 is strictly better than f2 under the
// feasibility-aware ordering: a feasible point beats an infeasible one;
// two feasible points compare by objective value; two infeasible points
// compare first by violated-constraint count, then by violation norm.
func Less(f1, f2 []float64, nec int, tol []float64) bool {
	n1, norm1 := Violations(f1, nec, tol)
	n2, norm2 := Violations(f2, nec, tol)
	if n1 == 0 && n2 == 0 {
		return f1[0] < f2[0]
	}
	if n1 != n2 {
		return n1 < n2
	}
	return norm1 < norm2
}
