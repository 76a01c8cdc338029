package bridge

import "fmt"

// Kind classifies a bridge error so callers can tell recoverable input
// mistakes from resource-acquisition failures.
type Kind int

const (
	// KindUnknown is the zero value.
	KindUnknown Kind = iota
	// KindPrecondition marks invalid input caught before any solver
	// interaction: multi-objective or stochastic problems, empty
	// populations, bad policy indices, conflicting output configuration.
	KindPrecondition
	// KindAcquisition marks a failure to obtain the solver capability.
	KindAcquisition
	// KindEvaluation marks a host-problem fitness failure propagated
	// from inside the reverse-communication loop or the final
	// re-evaluation.
	KindEvaluation
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindAcquisition:
		return "acquisition"
	case KindEvaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Error is a bridge error with classification and optional operation
// context that can wrap an underlying cause.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op is the operation that failed.
	Op string
	// Message describes the error that occurred.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// preconditionErrorf creates a KindPrecondition error with a formatted
// message.
func preconditionErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// acquisitionError wraps err as a KindAcquisition failure of op.
func acquisitionError(op string, err error) *Error {
	return &Error{Kind: KindAcquisition, Op: op, Message: "could not acquire solver capability", Err: err}
}

// evaluationError wraps a host-problem fitness failure, leaving the
// underlying error reachable unchanged via Unwrap.
func evaluationError(op string, err error) *Error {
	return &Error{Kind: KindEvaluation, Op: op, Message: "host problem fitness evaluation failed", Err: err}
}
