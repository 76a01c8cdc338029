package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/BOREAL/internal/solver"
)

// runLoop drives nc through the reverse-communication protocol against the
// given fitness function, mirroring the caller-side turn discipline.
func runLoop(t *testing.T, nc *Capability, n, m, nec int, lb, ub, x0 []float64, fitness func(x []float64) []float64) (*solver.Variables, solver.Status) {
	t.Helper()

	var (
		v solver.Variables
		w solver.Workspace
		p solver.Parameters
		c solver.Control
	)

	nc.PreInit(&v, &w, &p, &c)
	v.N, v.M = n, m
	w.DF.Nonzeros = solver.DenseNonzeros
	w.DG.Nonzeros = solver.DenseNonzeros
	w.HM.Nonzeros = solver.DenseNonzeros
	nc.Init(&v, &w, &p, &c)
	require.Equal(t, solver.Iterating, c.Status)

	f0 := fitness(x0)
	copy(v.X, x0)
	v.F = w.ScaleObj * f0[0]
	copy(v.G, f0[1:])
	copy(v.XL, lb)
	copy(v.XU, ub)
	for i := 0; i < nec; i++ {
		v.GL[i], v.GU[i] = 0, 0
	}
	for i := nec; i < m; i++ {
		v.GL[i], v.GU[i] = -p.Infinity, 0
	}

	for turns := 0; !c.Status.Terminal(); turns++ {
		require.Less(t, turns, 1_000_000, "loop did not terminate")

		if nc.GetRequestedAction(&c, solver.CallSolver) {
			nc.Step(&v, &w, &p, &c)
		}
		if nc.GetRequestedAction(&c, solver.IterOutput) {
			nc.IterationOutput(&v, &w, &p, &c)
			nc.AcknowledgeAction(&c, solver.IterOutput)
		}
		if nc.GetRequestedAction(&c, solver.EvalObjective) {
			f := fitness(v.X)
			v.F = w.ScaleObj * f[0]
			nc.AcknowledgeAction(&c, solver.EvalObjective)
		}
		if nc.GetRequestedAction(&c, solver.EvalConstraints) {
			f := fitness(v.X)
			copy(v.G, f[1:])
			nc.AcknowledgeAction(&c, solver.EvalConstraints)
		}
		if nc.GetRequestedAction(&c, solver.FiniteDiff) {
			nc.FiniteDifference(&v, &w, &p, &c)
		}
	}

	status := c.Status
	nc.StatusMessage(&v, &w, &p, &c)
	final := v
	final.X = append([]float64(nil), v.X...)
	nc.Free(&v, &w, &p, &c)
	return &final, status
}

func TestCompassSearchSphere(t *testing.T) {
	nc := New(nil)
	fitness := func(x []float64) []float64 {
		return []float64{x[0]*x[0] + x[1]*x[1]}
	}

	v, status := runLoop(t, nc, 2, 0, 0,
		[]float64{-5, -5}, []float64{5, 5}, []float64{3, 4}, fitness)

	assert.True(t, status.Success(), "status %v", status)
	assert.InDelta(t, 0, v.X[0], 1e-2)
	assert.InDelta(t, 0, v.X[1], 1e-2)
	assert.Less(t, fitness(v.X)[0], 1e-3)
}

func TestCompassSearchInequalityConstraint(t *testing.T) {
	nc := New(nil)
	// Minimize x subject to x >= 1, phrased as g(x) = 1 - x <= 0.
	fitness := func(x []float64) []float64 {
		return []float64{x[0], 1 - x[0]}
	}

	v, status := runLoop(t, nc, 1, 1, 0,
		[]float64{-5}, []float64{5}, []float64{4}, fitness)

	assert.True(t, status.Success(), "status %v", status)
	assert.InDelta(t, 1, v.X[0], 1e-2)
}

func TestCompassSearchStaysInBounds(t *testing.T) {
	nc := New(nil)
	fitness := func(x []float64) []float64 {
		return []float64{-x[0]} // pushes toward the upper bound
	}

	v, status := runLoop(t, nc, 1, 0, 0,
		[]float64{-2}, []float64{3}, []float64{0}, fitness)

	assert.True(t, status.Success())
	assert.InDelta(t, 3, v.X[0], 1e-6)
	assert.LessOrEqual(t, v.X[0], 3.0)
}

func TestInitRejectsZeroDimension(t *testing.T) {
	nc := New(nil)
	var (
		v solver.Variables
		w solver.Workspace
		p solver.Parameters
		c solver.Control
	)
	nc.PreInit(&v, &w, &p, &c)
	nc.Init(&v, &w, &p, &c)
	assert.Equal(t, solver.InitError, c.Status)
}

func TestReadParams(t *testing.T) {
	nc := New(nil)
	var p solver.Parameters
	p.Infinity = 1e20

	t.Run("missing file reads nothing", func(t *testing.T) {
		n, err := nc.ReadParams(filepath.Join(t.TempDir(), "param.xml"), &p)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("values applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "param.xml")
		content := `<params>
  <param name="MaxEvals">123</param>
  <param name="StepTolerance">0.5</param>
  <param name="Infinity">1e19</param>
  <param name="Unknown">7</param>
</params>`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		n, err := nc.ReadParams(path, &p)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, 123, nc.maxEvals)
		assert.Equal(t, 0.5, nc.stepTol)
		assert.Equal(t, 1e19, p.Infinity)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "param.xml")
		require.NoError(t, os.WriteFile(path, []byte("<params><param"), 0o644))
		_, err := nc.ReadParams(path, &p)
		assert.Error(t, err)
	})
}
