package bridge

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/BOREAL/internal/problem"
	"github.com/copyleftdev/BOREAL/internal/solver"
)

// Evolve selects one individual from pop, optimizes it by driving the
// solver capability through the reverse-communication protocol, and
// replaces an individual when the result strictly improves on the selected
// one under the feasibility-aware comparison. The population is returned in
// all success cases, possibly unchanged.
//
// Preconditions are checked before any solver interaction: the problem must
// be single-objective and non-stochastic, the population non-empty, the
// selection/replacement policies valid for its size, and verbosity must not
// conflict with native screen output.
func (o *Optimizer) Evolve(pop *problem.Population) (*problem.Population, error) {
	prob := pop.Problem()

	if pop.Size() == 0 {
		return nil, preconditionErrorf("%s does not work on an empty population", o.Name())
	}
	if n := prob.ObjectiveCount(); n != 1 {
		return nil, preconditionErrorf(
			"%d objectives detected in %s instance; %s requires exactly one", n, prob.Name(), o.Name())
	}
	if prob.Stochastic() {
		return nil, preconditionErrorf(
			"problem %s appears to be stochastic; %s cannot deal with it", prob.Name(), o.Name())
	}
	if o.screenOutput && o.verbosity != 0 {
		return nil, preconditionErrorf(
			"native solver screen output and nonzero verbosity are mutually exclusive")
	}
	if err := o.selection.validate(pop.Size()); err != nil {
		return nil, err
	}
	if err := o.replacement.validate(pop.Size()); err != nil {
		return nil, err
	}

	capability, release, err := o.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	selIdx, err := o.selection.apply(pop, o.rng)
	if err != nil {
		return nil, err
	}
	selected := pop.Get(selIdx)

	start := time.Now()
	o.log = o.log[:0]

	xFinal, status, err := o.drive(capability, prob, selected)
	o.lastStatus = status
	o.metrics.ObserveEvolve(status.Success(), time.Since(start))
	if err != nil {
		return nil, err
	}

	// The acceptance check deliberately re-evaluates the raw problem: the
	// solver's bookkeeping used a scaled objective, the comparison does
	// not.
	fFinal, err := prob.Fitness(xFinal)
	if err != nil {
		return nil, evaluationError("final re-evaluation", err)
	}

	nec := prob.EqualityConstraintCount()
	tol := prob.ConstraintTolerances()
	if problem.Less(fFinal, selected.F, nec, tol) {
		repIdx, err := o.replacement.apply(pop, o.rng)
		if err != nil {
			return nil, err
		}
		pop.Set(repIdx, xFinal, fFinal)
		o.metrics.IncReplacements()
		o.logger.Info("replaced individual",
			zap.Int("selected", selIdx),
			zap.Int("replaced", repIdx),
			zap.Float64("objective", fFinal[0]),
			zap.Stringer("status", status))
	} else {
		o.logger.Info("solver result did not improve the selected individual",
			zap.Int("selected", selIdx),
			zap.Stringer("status", status))
	}
	return pop, nil
}

// drive runs the full record lifecycle for one selected candidate: the
// two-phase init, the dimension/bounds setup, the reverse-communication
// loop, and the unconditional StatusMessage/Free teardown. It returns the
// final decision vector and terminal status.
func (o *Optimizer) drive(capability solver.Capability, prob problem.Problem, selected problem.Candidate) ([]float64, solver.Status, error) {
	var (
		v solver.Variables
		w solver.Workspace
		p solver.Parameters
		c solver.Control
	)

	capability.PreInit(&v, &w, &p, &c)

	nRead, err := capability.ReadParams(o.paramFile, &p)
	if err != nil {
		return nil, c.Status, acquisitionError("read solver parameters", err)
	}
	o.logger.Debug("solver parameters read",
		zap.String("file", o.paramFile), zap.Int("count", nRead))

	dim := prob.Dimension()
	nec := prob.EqualityConstraintCount()
	v.N = dim
	v.M = prob.ConstraintCount()

	// Dense declarations only; no sparsity is exploited.
	w.DF.Nonzeros = solver.DenseNonzeros
	w.DG.Nonzeros = solver.DenseNonzeros
	w.HM.Nonzeros = solver.DenseNonzeros

	capability.Init(&v, &w, &p, &c)

	// Teardown is mandatory on every exit path, including evaluation
	// errors raised mid-loop.
	defer func() {
		capability.StatusMessage(&v, &w, &p, &c)
		capability.Free(&v, &w, &p, &c)
	}()

	if c.Status <= solver.TerminateError {
		return nil, c.Status, acquisitionError("initialize solver",
			fmt.Errorf("solver reported %v after init", c.Status))
	}

	// Derivative-free configuration: the solver computes its own
	// derivatives by finite differences and estimates the initial
	// multipliers.
	p.UserDF = false
	p.UserDG = false
	p.UserHM = false
	p.UserHMStructure = false
	p.InitialLMEstimate = true

	// The single post-init parameter mutation: tighten the feasibility
	// tolerance to the smallest positive host tolerance, when one exists.
	if t, ok := minPositive(prob.ConstraintTolerances()); ok {
		p.FeasibleTolerance = t
	}

	copy(v.X, selected.X)
	v.F = w.ScaleObj * selected.F[0]
	copy(v.G, selected.F[1:])

	lb, ub := prob.Bounds()
	copy(v.XL, lb)
	copy(v.XU, ub)
	for i := 0; i < nec; i++ {
		v.GL[i] = 0
		v.GU[i] = 0
	}
	for i := nec; i < v.M; i++ {
		v.GL[i] = -p.Infinity
		v.GU[i] = 0
	}

	var objEvals uint64

	// The reverse-communication loop. Every turn polls all five request
	// flags in this order, since more than one may be set at once.
	// CallSolver and FiniteDiff are never acknowledged here: the
	// solver's own routines manage those two flags.
	for !c.Status.Terminal() {
		o.metrics.IncTurns()

		if capability.GetRequestedAction(&c, solver.CallSolver) {
			capability.Step(&v, &w, &p, &c)
		}

		if capability.GetRequestedAction(&c, solver.IterOutput) {
			capability.IterationOutput(&v, &w, &p, &c)
			capability.AcknowledgeAction(&c, solver.IterOutput)
		}

		if capability.GetRequestedAction(&c, solver.EvalObjective) {
			f, err := o.evalAt(prob, v.X)
			if err != nil {
				return nil, c.Status, err
			}
			v.F = w.ScaleObj * f[0]
			capability.AcknowledgeAction(&c, solver.EvalObjective)
			o.metrics.IncObjectiveEvals()
			objEvals++
			o.recordLogLine(prob, objEvals, f)
		}

		if capability.GetRequestedAction(&c, solver.EvalConstraints) {
			f, err := o.evalAt(prob, v.X)
			if err != nil {
				return nil, c.Status, err
			}
			copy(v.G, f[1:])
			capability.AcknowledgeAction(&c, solver.EvalConstraints)
			o.metrics.IncConstraintEvals()
		}

		if capability.GetRequestedAction(&c, solver.FiniteDiff) {
			capability.FiniteDifference(&v, &w, &p, &c)
		}
	}

	return append([]float64(nil), v.X...), c.Status, nil
}

// evalAt evaluates the host problem at x without aliasing the record's
// decision vector.
func (o *Optimizer) evalAt(prob problem.Problem, x []float64) ([]float64, error) {
	f, err := prob.Fitness(append([]float64(nil), x...))
	if err != nil {
		return nil, evaluationError("fitness evaluation", err)
	}
	return f, nil
}

// recordLogLine appends a verbosity log line every o.verbosity objective
// evaluations and emits it through the logger.
func (o *Optimizer) recordLogLine(prob problem.Problem, objEvals uint64, f []float64) {
	if o.verbosity == 0 || objEvals%uint64(o.verbosity) != 0 {
		return
	}
	nec := prob.EqualityConstraintCount()
	tol := prob.ConstraintTolerances()
	violated, norm := problem.Violations(f, nec, tol)
	line := LogLine{
		ObjEvals:      objEvals,
		ObjVal:        f[0],
		Violated:      violated,
		ViolationNorm: norm,
		Feasible:      violated == 0,
	}
	o.log = append(o.log, line)
	o.logger.Info("optimization progress",
		zap.Uint64("objevals", line.ObjEvals),
		zap.Float64("objval", line.ObjVal),
		zap.Int("violated", line.Violated),
		zap.Float64("viol_norm", line.ViolationNorm),
		zap.Bool("feasible", line.Feasible))
}

// minPositive returns the smallest strictly positive value of vs.
func minPositive(vs []float64) (float64, bool) {
	min, found := 0.0, false
	for _, v := range vs {
		if v > 0 && (!found || v < min) {
			min, found = v, true
		}
	}
	return min, found
}
