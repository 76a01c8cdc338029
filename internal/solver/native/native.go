// Package native implements the solver capability contract with a bounded,
// penalty-based compass search. It exists so the bridge can be exercised,
// tested and demoed without the licensed external library; it makes no
// attempt to match that solver's SQP/interior-point numerics. The
// reverse-communication discipline, however, is the real one: the search
// never evaluates the problem itself, it raises request flags and consumes
// the values the caller writes back.
package native

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/BOREAL/internal/solver"
)

const (
	defaultInfinity  = 1e20
	defaultFeasTol   = 1e-6
	defaultStepTol   = 1e-6
	defaultEvalsPerN = 500
	penaltyWeight    = 1e3
)

// Capability is a compass-search stand-in for a reverse-communication NLP
// solver. Create one per optimization run.
type Capability struct {
	// Output receives iteration and status lines when non-nil; nil keeps
	// the capability silent.
	Output io.Writer

	maxEvals int
	stepTol  float64

	n, m, nec int

	step      []float64
	best      []float64
	bestF     float64
	bestMerit float64
	haveBest  bool

	trial    []float64
	pending  bool
	awaitF   bool
	awaitG   bool
	dir      int
	improved bool
	evals    int
	iters    int
}

// New returns a fresh capability writing solver output to out. A nil out
// disables the native screen output.
func New(out io.Writer) *Capability {
	return &Capability{Output: out}
}

// Factory adapts New to the bridge's capability-factory shape.
func Factory(out io.Writer) func() (solver.Capability, error) {
	return func() (solver.Capability, error) { return New(out), nil }
}

// PreInit resets the four records to their defaults.
func (nc *Capability) PreInit(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	*v = solver.Variables{}
	*w = solver.Workspace{}
	*p = solver.Parameters{
		Infinity:          defaultInfinity,
		FeasibleTolerance: defaultFeasTol,
	}
	*c = solver.Control{}
}

// paramFile is the XML schema understood by the stand-in: a flat list of
// named values.
type paramFile struct {
	XMLName xml.Name `xml:"params"`
	Params  []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:",chardata"`
	} `xml:"param"`
}

// ReadParams reads tuning parameters from the named XML file. A missing
// file reads zero parameters; a malformed one is an error.
func (nc *Capability) ReadParams(filename string, p *solver.Parameters) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	var pf paramFile
	if err := xml.Unmarshal(data, &pf); err != nil {
		return 0, fmt.Errorf("parameter file %s: %w", filename, err)
	}
	read := 0
	for _, entry := range pf.Params {
		value, err := strconv.ParseFloat(strings.TrimSpace(entry.Value), 64)
		if err != nil {
			return read, fmt.Errorf("parameter file %s: parameter %q: %w", filename, entry.Name, err)
		}
		switch entry.Name {
		case "MaxEvals":
			nc.maxEvals = int(value)
		case "StepTolerance":
			nc.stepTol = value
		case "Infinity":
			p.Infinity = value
		case "FeasibleTolerance":
			p.FeasibleTolerance = value
		default:
			continue
		}
		read++
	}
	return read, nil
}

// Init allocates the record arrays for the dimensions set by the caller and
// opens the reverse-communication loop by requesting the first solver step.
func (nc *Capability) Init(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	if v.N <= 0 {
		c.Status = solver.InitError
		return
	}
	nc.n, nc.m = v.N, v.M

	v.X = make([]float64, v.N)
	v.XL = make([]float64, v.N)
	v.XU = make([]float64, v.N)
	v.G = make([]float64, v.M)
	v.GL = make([]float64, v.M)
	v.GU = make([]float64, v.M)

	w.ScaleObj = 1

	if nc.maxEvals <= 0 {
		nc.maxEvals = defaultEvalsPerN * v.N
	}
	if nc.stepTol <= 0 {
		nc.stepTol = defaultStepTol
	}

	c.Status = solver.Iterating
	c.Request(solver.CallSolver)
}

// GetRequestedAction reports whether a is pending.
func (nc *Capability) GetRequestedAction(c *solver.Control, a solver.Action) bool {
	return c.Requested(a)
}

// AcknowledgeAction clears a pending request and, once both evaluation
// results are in, hands the turn back to the solver step.
func (nc *Capability) AcknowledgeAction(c *solver.Control, a solver.Action) bool {
	if !c.Requested(a) {
		return false
	}
	c.Clear(a)
	switch a {
	case solver.EvalObjective:
		nc.awaitF = false
	case solver.EvalConstraints:
		nc.awaitG = false
	}
	if nc.pending && !nc.awaitF && !nc.awaitG {
		c.Request(solver.CallSolver)
	}
	return true
}

// Step advances the compass search by one move: it consumes the evaluation
// of the previous trial point, updates the incumbent, and either proposes
// the next trial (requesting evaluations from the caller) or terminates.
func (nc *Capability) Step(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	if !nc.haveBest {
		// The caller seeded X, F, G and the bounds before the loop
		// started. A zero-width [0,0] constraint interval marks the
		// equality block, which always comes first.
		nc.nec = 0
		for i := 0; i < nc.m; i++ {
			if v.GL[i] == 0 && v.GU[i] == 0 {
				nc.nec++
			} else {
				break
			}
		}
		nc.best = append([]float64(nil), v.X...)
		nc.bestF = v.F
		nc.bestMerit = nc.merit(v.F, v.G)
		nc.haveBest = true
		nc.initSteps(v)
	} else if nc.pending {
		nc.pending = false
		nc.evals++
		if m := nc.merit(v.F, v.G); m < nc.bestMerit {
			nc.bestMerit = m
			nc.bestF = v.F
			copy(nc.best, v.X)
			nc.improved = true
			c.Request(solver.IterOutput)
		}
	}

	if nc.evals >= nc.maxEvals {
		nc.finish(v, w, c, solver.TerminateSuccess)
		return
	}

	for {
		if nc.dir == 2*nc.n {
			if !nc.improved {
				floats.Scale(0.5, nc.step)
				if floats.Max(nc.step) < nc.stepTol {
					nc.finish(v, w, c, solver.OptimalSolution)
					return
				}
			}
			nc.improved = false
			nc.dir = 0
			nc.iters++
		}

		i := nc.dir / 2
		delta := nc.step[i]
		if nc.dir%2 == 1 {
			delta = -delta
		}
		nc.dir++

		xi := clamp(nc.best[i]+delta, v.XL[i], v.XU[i])
		if xi == nc.best[i] {
			continue // pinned against a bound, nothing to probe
		}

		copy(v.X, nc.best)
		v.X[i] = xi
		nc.pending = true
		nc.awaitF = true
		c.Clear(solver.CallSolver)
		c.Request(solver.EvalObjective)
		if nc.m > 0 {
			nc.awaitG = true
			c.Request(solver.EvalConstraints)
		}
		return
	}
}

// IterationOutput writes one progress line when output is enabled.
func (nc *Capability) IterationOutput(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	if nc.Output == nil {
		return
	}
	fmt.Fprintf(nc.Output, "iter %6d evals %6d merit %14.8g objective %14.8g\n",
		nc.iters, nc.evals, nc.bestMerit, nc.bestF)
}

// FiniteDifference is a no-op: the compass search is derivative-free and
// never raises the finite-difference request.
func (nc *Capability) FiniteDifference(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
}

// StatusMessage writes the terminal status line when output is enabled.
func (nc *Capability) StatusMessage(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	if nc.Output == nil {
		return
	}
	fmt.Fprintf(nc.Output, "final status: %v after %d evaluations\n", c.Status, nc.evals)
}

// Free drops the record arrays.
func (nc *Capability) Free(v *solver.Variables, w *solver.Workspace, p *solver.Parameters, c *solver.Control) {
	v.X, v.G = nil, nil
	v.XL, v.XU = nil, nil
	v.GL, v.GU = nil, nil
	w.Scratch = nil
}

// finish publishes the incumbent into the record and sets the terminal
// status.
func (nc *Capability) finish(v *solver.Variables, w *solver.Workspace, c *solver.Control, s solver.Status) {
	copy(v.X, nc.best)
	v.F = nc.bestF
	c.Clear(solver.CallSolver)
	c.Status = s
}

// initSteps sizes the initial compass steps from the box bounds, falling
// back to a unit step on unbounded coordinates.
func (nc *Capability) initSteps(v *solver.Variables) {
	nc.step = make([]float64, nc.n)
	for i := range nc.step {
		r := v.XU[i] - v.XL[i]
		if r > 0 && !math.IsInf(r, 1) {
			nc.step[i] = 0.25 * r
		} else {
			nc.step[i] = 1
		}
	}
}

// merit is the penalized objective: equality constraints contribute their
// absolute value, inequalities their positive part, per the
// equality-then-inequality block layout.
func (nc *Capability) merit(f float64, g []float64) float64 {
	m := f
	for i, gi := range g {
		switch {
		case i < nc.nec:
			m += penaltyWeight * math.Abs(gi)
		case gi > 0:
			m += penaltyWeight * gi
		}
	}
	return m
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
