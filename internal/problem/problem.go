// Package problem defines the host optimization problem and population
// abstractions the bridge consumes: a single fitness-evaluating Problem
// interface, a Population of candidates, and the feasibility-aware
// comparison used for selection and replacement.
package problem

// Problem is the host view of one optimization problem. Fitness returns a
// vector laid out as [objective, eq constraints..., ineq constraints...]:
// index 0 is the objective, indices 1..EqualityConstraintCount() the
// equality constraints, and the remainder the inequality constraints
// (satisfied when <= 0).
type Problem interface {
	// Name identifies the problem in logs and errors.
	Name() string
	// Dimension is the decision-vector length.
	Dimension() int
	// Bounds returns the box bounds, both of length Dimension().
	Bounds() (lb, ub []float64)
	// ObjectiveCount is the number of objectives. The bridge supports
	// exactly one.
	ObjectiveCount() int
	// ConstraintCount is the total constraint count m.
	ConstraintCount() int
	// EqualityConstraintCount is n_eq, with 0 <= n_eq <= m.
	EqualityConstraintCount() int
	// ConstraintTolerances returns per-constraint feasibility tolerances,
	// length ConstraintCount().
	ConstraintTolerances() []float64
	// Stochastic reports whether the fitness is noisy or seed-dependent.
	Stochastic() bool
	// Fitness evaluates the problem at x. len(x) must equal Dimension();
	// the result has length 1+ConstraintCount().
	Fitness(x []float64) ([]float64, error)
}

// FitnessLength returns the expected fitness-vector length for p.
func FitnessLength(p Problem) int { return 1 + p.ConstraintCount() }
