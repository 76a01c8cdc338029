package solver

// Action identifies one of the activities a capability can request from the
// caller during a reverse-communication turn. Actions are bit flags: more
// than one may be pending at once.
type Action uint

const (
	// CallSolver asks the caller to invoke Step. Self-acknowledging: the
	// caller must never clear it, only the solver's own routines do.
	CallSolver Action = 1 << iota
	// IterOutput asks the caller to invoke IterationOutput, then
	// acknowledge.
	IterOutput
	// EvalObjective asks the caller to evaluate the objective at
	// Variables.X, write the scaled value to Variables.F, then
	// acknowledge.
	EvalObjective
	// EvalConstraints asks the caller to evaluate the constraints at
	// Variables.X, write them to Variables.G, then acknowledge.
	EvalConstraints
	// FiniteDiff asks the caller to invoke FiniteDifference.
	// Self-acknowledging, like CallSolver.
	FiniteDiff
)

func (a Action) String() string {
	switch a {
	case CallSolver:
		return "call-solver"
	case IterOutput:
		return "iteration-output"
	case EvalObjective:
		return "evaluate-objective"
	case EvalConstraints:
		return "evaluate-constraints"
	case FiniteDiff:
		return "finite-difference"
	default:
		return "unknown-action"
	}
}
