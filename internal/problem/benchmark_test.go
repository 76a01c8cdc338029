package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereFitness(t *testing.T) {
	s := Sphere{Dim: 3, Bound: 5}
	f, err := s.Fitness([]float64{1, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, f)

	_, err = s.Fitness([]float64{1})
	assert.Error(t, err)
}

func TestHS71Fitness(t *testing.T) {
	h := HockSchittkowski71{}

	// Known optimum: x* ~ (1, 4.743, 3.821, 1.379), f* ~ 17.014.
	f, err := h.Fitness([]float64{1, 4.7429994, 3.8211503, 1.3794082})
	require.NoError(t, err)
	assert.InDelta(t, 17.014, f[0], 1e-2)
	assert.InDelta(t, 0, f[1], 1e-4) // equality active
	assert.InDelta(t, 0, f[2], 1e-4) // inequality active

	assert.Equal(t, 2, h.ConstraintCount())
	assert.Equal(t, 1, h.EqualityConstraintCount())
}

func TestByName(t *testing.T) {
	p, err := ByName("sphere", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Dimension())

	p, err = ByName("hs71", 0)
	require.NoError(t, err)
	assert.Equal(t, "hs71", p.Name())

	_, err = ByName("nope", 0)
	assert.Error(t, err)
}
