package bridge

import (
	"fmt"
	"math/rand"

	"github.com/copyleftdev/BOREAL/internal/problem"
)

// Policy picks one individual out of a population, either by a fixed index
// or by a named strategy. It is a two-case tagged variant; the zero value
// is invalid and must be replaced by ByIndex or ByPolicy before use.
type Policy struct {
	byIndex bool
	index   int
	name    string
}

// Named strategies accepted by ByPolicy.
const (
	PolicyBest   = "best"
	PolicyWorst  = "worst"
	PolicyRandom = "random"
)

// ByIndex selects the individual at a fixed index. The index is validated
// against the population size when the policy is applied, not when it is
// set.
func ByIndex(i int) Policy { return Policy{byIndex: true, index: i} }

// ByPolicy selects an individual by a named strategy: PolicyBest,
// PolicyWorst or PolicyRandom.
func ByPolicy(name string) Policy { return Policy{name: name} }

// String renders the policy for ExtraInfo and errors.
func (p Policy) String() string {
	if p.byIndex {
		return fmt.Sprintf("idx: %d", p.index)
	}
	return fmt.Sprintf("policy: %s", p.name)
}

// validate checks the policy against a population size without resolving
// it, so misconfiguration surfaces before any solver interaction.
func (p Policy) validate(size int) error {
	if p.byIndex {
		if p.index < 0 || p.index >= size {
			return preconditionErrorf(
				"individual index %d out of range for population of size %d", p.index, size)
		}
		return nil
	}
	switch p.name {
	case PolicyBest, PolicyWorst, PolicyRandom:
		return nil
	default:
		return preconditionErrorf("unknown individual policy %q", p.name)
	}
}

// apply resolves the policy to a concrete index into pop.
func (p Policy) apply(pop *problem.Population, rng *rand.Rand) (int, error) {
	if p.byIndex {
		if p.index < 0 || p.index >= pop.Size() {
			return 0, preconditionErrorf(
				"individual index %d out of range for population of size %d", p.index, pop.Size())
		}
		return p.index, nil
	}
	switch p.name {
	case PolicyBest:
		return pop.BestIndex(), nil
	case PolicyWorst:
		return pop.WorstIndex(), nil
	case PolicyRandom:
		return rng.Intn(pop.Size()), nil
	default:
		return 0, preconditionErrorf("unknown individual policy %q", p.name)
	}
}
