package solver

import "fmt"

// Status is the solver's termination state. The reverse-communication loop
// keeps turning while the status lies strictly between TerminateError and
// TerminateSuccess; any value at or beyond either sentinel is terminal.
type Status int

const (
	// FatalError indicates an unrecoverable internal solver failure.
	FatalError Status = -3
	// InitError indicates the solver could not allocate or initialize.
	InitError Status = -2
	// TerminateError is the error-side terminal sentinel.
	TerminateError Status = -1
	// Iterating is the in-progress state set by Init.
	Iterating Status = 0
	// TerminateSuccess is the success-side terminal sentinel.
	TerminateSuccess Status = 1
	// OptimalSolution reports convergence to a locally optimal point.
	OptimalSolution Status = 2
	// FeasibleSolution reports a feasible but not provably optimal point.
	FeasibleSolution Status = 3
)

// Terminal reports whether s ends the reverse-communication loop.
func (s Status) Terminal() bool {
	return s >= TerminateSuccess || s <= TerminateError
}

// Success reports whether s is a success-side terminal status.
func (s Status) Success() bool { return s >= TerminateSuccess }

func (s Status) String() string {
	switch s {
	case FatalError:
		return "fatal error"
	case InitError:
		return "initialization error"
	case TerminateError:
		return "terminated with error"
	case Iterating:
		return "iterating"
	case TerminateSuccess:
		return "terminated successfully"
	case OptimalSolution:
		return "optimal solution found"
	case FeasibleSolution:
		return "feasible solution found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
