package problem

import (
	"fmt"
	"math/rand"
)

// Candidate is one decision-vector/fitness-vector pair.
type Candidate struct {
	X []float64
	F []float64
}

// clone deep-copies the candidate so population members never alias caller
// slices.
func (c Candidate) clone() Candidate {
	return Candidate{
		X: append([]float64(nil), c.X...),
		F: append([]float64(nil), c.F...),
	}
}

// Population is a set of evaluated candidates over one problem.
type Population struct {
	prob    Problem
	members []Candidate
}

// NewPopulation creates a population of size n with decision vectors drawn
// uniformly from the problem bounds, evaluating each. A zero n yields an
// empty population.
func NewPopulation(p Problem, n int, rng *rand.Rand) (*Population, error) {
	pop := &Population{prob: p}
	lb, ub := p.Bounds()
	for i := 0; i < n; i++ {
		x := make([]float64, p.Dimension())
		for j := range x {
			x[j] = lb[j] + rng.Float64()*(ub[j]-lb[j])
		}
		if err := pop.Push(x); err != nil {
			return nil, err
		}
	}
	return pop, nil
}

// NewPopulationFrom builds a population from already-evaluated candidates.
// Used by tests and by callers that manage their own evaluation.
func NewPopulationFrom(p Problem, members []Candidate) (*Population, error) {
	pop := &Population{prob: p}
	for i, c := range members {
		if len(c.X) != p.Dimension() || len(c.F) != FitnessLength(p) {
			return nil, fmt.Errorf("candidate %d: want vector lengths %d/%d, got %d/%d",
				i, p.Dimension(), FitnessLength(p), len(c.X), len(c.F))
		}
		pop.members = append(pop.members, c.clone())
	}
	return pop, nil
}

// Push evaluates x and appends the resulting candidate.
func (p *Population) Push(x []float64) error {
	f, err := p.prob.Fitness(x)
	if err != nil {
		return err
	}
	p.members = append(p.members, Candidate{X: x, F: f}.clone())
	return nil
}

// Problem returns the population's problem.
func (p *Population) Problem() Problem { return p.prob }

// Size returns the number of candidates.
func (p *Population) Size() int { return len(p.members) }

// Get returns a copy of candidate i.
func (p *Population) Get(i int) Candidate { return p.members[i].clone() }

// Set overwrites candidate i with copies of x and f.
func (p *Population) Set(i int, x, f []float64) {
	p.members[i] = Candidate{X: x, F: f}.clone()
}

// BestIndex returns the index of the best candidate under the
// feasibility-aware ordering. The population must not be empty.
func (p *Population) BestIndex() int {
	nec := p.prob.EqualityConstraintCount()
	tol := p.prob.ConstraintTolerances()
	best := 0
	for i := 1; i < len(p.members); i++ {
		if Less(p.members[i].F, p.members[best].F, nec, tol) {
			best = i
		}
	}
	return best
}

// WorstIndex returns the index of the worst candidate under the
// feasibility-aware ordering. The population must not be empty.
func (p *Population) WorstIndex() int {
	nec := p.prob.EqualityConstraintCount()
	tol := p.prob.ConstraintTolerances()
	worst := 0
	for i := 1; i < len(p.members); i++ {
		if Less(p.members[worst].F, p.members[i].F, nec, tol) {
			worst = i
		}
	}
	return worst
}
