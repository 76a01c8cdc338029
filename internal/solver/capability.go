package solver

// Capability groups the entry points of a reverse-communication solver. The
// bridge drives any implementation in the same way: the two-phase
// PreInit/Init setup, the turn loop over the request flags, and the
// StatusMessage/Free teardown pair.
//
// Implementations must honor the acknowledgment discipline documented on
// the Action constants: CallSolver and FiniteDiff are cleared by the
// solver's own routines, the remaining actions by AcknowledgeAction.
type Capability interface {
	// PreInit resets the four records to their defaults. First call of
	// the lifecycle, exactly once.
	PreInit(v *Variables, w *Workspace, p *Parameters, c *Control)

	// ReadParams loads solver tuning parameters from the named file into
	// p and returns the number of parameters that received non-default
	// values. A missing file is not an error; it reads zero parameters.
	// The file's schema is owned by the capability.
	ReadParams(filename string, p *Parameters) (int, error)

	// Init allocates solver memory for the dimensions recorded in v and
	// the matrix declarations in w, and moves c.Status to Iterating.
	// Second phase of the two-phase setup, exactly once, after the
	// caller has set v.N, v.M and the derivative declarations.
	Init(v *Variables, w *Workspace, p *Parameters, c *Control)

	// GetRequestedAction reports whether the solver currently requests a.
	GetRequestedAction(c *Control, a Action) bool

	// AcknowledgeAction tells the solver the requested action has been
	// performed and returns whether the flag was pending. Must not be
	// called for CallSolver or FiniteDiff.
	AcknowledgeAction(c *Control, a Action) bool

	// Step runs the solver's own internal iteration.
	Step(v *Variables, w *Workspace, p *Parameters, c *Control)

	// IterationOutput emits the solver's per-iteration report.
	IterationOutput(v *Variables, w *Workspace, p *Parameters, c *Control)

	// FiniteDifference advances the solver's finite-difference
	// derivative machinery.
	FiniteDifference(v *Variables, w *Workspace, p *Parameters, c *Control)

	// StatusMessage reports the final solver status. Part of the
	// mandatory teardown pair.
	StatusMessage(v *Variables, w *Workspace, p *Parameters, c *Control)

	// Free releases all solver memory tied to the records. Last call of
	// the lifecycle.
	Free(v *Variables, w *Workspace, p *Parameters, c *Control)
}
