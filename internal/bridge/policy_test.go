package bridge

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		size    int
		wantErr bool
	}{
		{name: "index in range", policy: ByIndex(2), size: 3},
		{name: "index negative", policy: ByIndex(-1), size: 3, wantErr: true},
		{name: "index at size", policy: ByIndex(3), size: 3, wantErr: true},
		{name: "best", policy: ByPolicy(PolicyBest), size: 1},
		{name: "worst", policy: ByPolicy(PolicyWorst), size: 1},
		{name: "random", policy: ByPolicy(PolicyRandom), size: 1},
		{name: "unknown name", policy: ByPolicy("median"), size: 3, wantErr: true},
		{name: "zero value", policy: Policy{}, size: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.validate(tt.size)
			if tt.wantErr {
				require.Error(t, err)
				var bErr *Error
				require.ErrorAs(t, err, &bErr)
				assert.Equal(t, KindPrecondition, bErr.Kind)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicyApply(t *testing.T) {
	prob := newStubProblem(2, 0, 0)
	// Fitness is the coordinate sum, so [0,0] is best and [3,3] is worst.
	pop := stubPopulation(t, prob,
		[]float64{1, 2}, []float64{0, 0}, []float64{3, 3})
	rng := rand.New(rand.NewSource(7))

	idx, err := ByIndex(2).apply(pop, rng)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = ByPolicy(PolicyBest).apply(pop, rng)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = ByPolicy(PolicyWorst).apply(pop, rng)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	for i := 0; i < 20; i++ {
		idx, err = ByPolicy(PolicyRandom).apply(pop, rng)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, pop.Size())
	}

	_, err = ByIndex(5).apply(pop, rng)
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "idx: 4", ByIndex(4).String())
	assert.Equal(t, "policy: random", ByPolicy(PolicyRandom).String())
}
