// Package solver defines the reverse-communication contract between the
// bridge and an external nonlinear-programming solver: the four mutable
// records the solver operates on, the request/acknowledge action flags, the
// status codes, and the Capability interface grouping the solver's entry
// points. The package contains no numerics of its own; concrete capabilities
// live in the native and plugin sub-packages.
package solver

// DenseNonzeros declares a derivative matrix as fully populated. The bridge
// never exploits sparsity, so every matrix declaration uses this value.
const DenseNonzeros = -1

// DerivativeMatrix describes the declared structure of one of the solver's
// derivative matrices. Only the nonzero count is visible to the caller.
type DerivativeMatrix struct {
	// Nonzeros is the declared number of structural nonzeros, or
	// DenseNonzeros for a dense declaration.
	Nonzeros int
}

// Variables is the solver's view of one optimization instance: the decision
// vector, its objective and constraint values, and the variable/constraint
// bounds. The bridge owns a Variables record exclusively for the duration of
// one Evolve call.
type Variables struct {
	// N is the problem dimension, M the total constraint count. Both must
	// be set after PreInit and before Init.
	N int
	M int

	// X is the decision vector, length N.
	X []float64
	// F is the (scaled) objective value at X.
	F float64
	// G holds the constraint values at X, length M, equality block first.
	G []float64

	// XL and XU are the variable bounds, length N.
	XL, XU []float64
	// GL and GU are the constraint bounds, length M.
	GL, GU []float64
}

// Workspace is solver-private scratch state. The only field the caller may
// read is ScaleObj, the objective scaling factor that must be applied when
// writing Variables.F. The derivative matrix declarations must be set before
// Init.
type Workspace struct {
	ScaleObj float64

	DF DerivativeMatrix // objective gradient
	DG DerivativeMatrix // constraint Jacobian
	HM DerivativeMatrix // Hessian of the Lagrangian

	// Scratch is opaque capability-private state.
	Scratch any
}

// Parameters carries the configuration flags and tolerances governing the
// solver. It is populated by PreInit and ReadParams; after Init the caller
// performs at most one mutation, the feasibility-tolerance override.
type Parameters struct {
	// User-supplied derivative switches. The bridge fixes all four to
	// false: the solver obtains derivatives by finite differences.
	UserDF          bool
	UserDG          bool
	UserHM          bool
	UserHMStructure bool

	// InitialLMEstimate lets the solver estimate initial Lagrange
	// multipliers instead of receiving them from the caller.
	InitialLMEstimate bool

	// Infinity is the sentinel magnitude for unbounded constraint sides.
	Infinity float64

	// FeasibleTolerance is the solver's constraint feasibility tolerance.
	FeasibleTolerance float64
}

// Control is the turn-taking state shared between caller and solver: the
// status code and the pending-action flags. The flags are mutated only by
// the capability; the caller observes them through GetRequestedAction and
// clears them through AcknowledgeAction.
type Control struct {
	Status Status

	pending Action
}

// Request marks an action as requested. Reserved for capability
// implementations.
func (c *Control) Request(a Action) { c.pending |= a }

// Clear withdraws a pending request. Reserved for capability
// implementations.
func (c *Control) Clear(a Action) { c.pending &^= a }

// Requested reports whether every bit of a is currently requested.
func (c *Control) Requested(a Action) bool { return c.pending&a == a }
