// Package bridge adapts a population of candidate solutions to the
// single-point view of a reverse-communication NLP solver. It selects one
// individual, drives the solver's turn-based protocol to a terminal status,
// and writes the result back into the population when it improves on the
// original under the feasibility-aware comparison.
package bridge

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/BOREAL/internal/metrics"
	"github.com/copyleftdev/BOREAL/internal/solver"
	"github.com/copyleftdev/BOREAL/internal/solver/plugin"
)

// DefaultLibraryPath is where the solver shared library is looked up when
// no explicit path is configured.
const DefaultLibraryPath = "/usr/local/lib/libworhp.so"

// DefaultParamFile is the solver parameter file read once per Evolve call.
const DefaultParamFile = "param.xml"

// libraryMu serializes acquisition of the shared-library capability and,
// conservatively, the whole Evolve call running on it: legacy solver
// libraries keep global state beyond the four records, so two concurrent
// calls into the same library are unsafe. Injected capabilities (native,
// test doubles) operate on per-call records only and skip this lock.
var libraryMu sync.Mutex

// CapabilityFactory produces a fresh solver capability for one Evolve call.
type CapabilityFactory func() (solver.Capability, error)

// LogLine is one verbosity-log entry, recorded every `verbosity` objective
// evaluations: evaluation count, unscaled objective value, number of
// violated constraints, violation norm and the feasibility flag.
type LogLine struct {
	ObjEvals      uint64
	ObjVal        float64
	Violated      int
	ViolationNorm float64
	Feasible      bool
}

// Optimizer drives an external reverse-communication solver over one
// individual of a population. The zero value is not usable; construct with
// New. An Optimizer is not safe for concurrent use.
type Optimizer struct {
	libraryPath  string
	paramFile    string
	screenOutput bool
	verbosity    uint

	selection   Policy
	replacement Policy

	newCapability CapabilityFactory
	logger        *zap.Logger
	metrics       *metrics.Metrics
	rng           *rand.Rand

	lastStatus solver.Status
	log        []LogLine
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLibraryPath sets the filesystem path of the solver shared library.
func WithLibraryPath(path string) Option {
	return func(o *Optimizer) { o.libraryPath = path }
}

// WithParamFile sets the solver parameter file name passed to ReadParams.
func WithParamFile(name string) Option {
	return func(o *Optimizer) { o.paramFile = name }
}

// WithScreenOutput enables the solver's native screen output instead of the
// host-managed verbosity log. Mutually exclusive with a nonzero verbosity.
func WithScreenOutput(enabled bool) Option {
	return func(o *Optimizer) { o.screenOutput = enabled }
}

// WithCapability replaces the shared-library loader with an explicit
// capability factory. Used for the native stand-in and for test doubles.
func WithCapability(f CapabilityFactory) Option {
	return func(o *Optimizer) { o.newCapability = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) { o.metrics = m }
}

// WithSeed seeds the RNG used by the "random" selection policy.
func WithSeed(seed int64) Option {
	return func(o *Optimizer) { o.rng = rand.New(rand.NewSource(seed)) }
}

// New creates an Optimizer with the documented defaults: library at
// DefaultLibraryPath, parameter file DefaultParamFile, selection policy
// "best", replacement policy "worst", verbosity zero, screen output off.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		libraryPath: DefaultLibraryPath,
		paramFile:   DefaultParamFile,
		selection:   ByPolicy(PolicyBest),
		replacement: ByPolicy(PolicyWorst),
		logger:      zap.NewNop(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetSelection sets the policy that picks the individual to optimize.
func (o *Optimizer) SetSelection(p Policy) { o.selection = p }

// SetReplacement sets the policy that picks the individual to replace.
func (o *Optimizer) SetReplacement(p Policy) { o.replacement = p }

// SetVerbosity enables host-managed logging every n objective evaluations;
// zero disables it. Returns a precondition error when the solver's native
// screen output was enabled at construction.
func (o *Optimizer) SetVerbosity(n uint) error {
	if o.screenOutput && n != 0 {
		return preconditionErrorf(
			"cannot set verbosity to a nonzero value when native solver screen output is enabled")
	}
	o.verbosity = n
	return nil
}

// Verbosity returns the current verbosity level.
func (o *Optimizer) Verbosity() uint { return o.verbosity }

// LastStatus returns the terminal solver status of the most recent Evolve.
func (o *Optimizer) LastStatus() solver.Status { return o.lastStatus }

// Log returns a copy of the verbosity log recorded by the most recent
// Evolve.
func (o *Optimizer) Log() []LogLine {
	return append([]LogLine(nil), o.log...)
}

// Name identifies the algorithm.
func (o *Optimizer) Name() string { return "BOREAL" }

// ExtraInfo renders the configured library path, output mode and policies.
func (o *Optimizer) ExtraInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tSolver library filename: %s\n", o.libraryPath)
	if o.screenOutput {
		b.WriteString("\tScreen output: (solver)\n")
	} else {
		fmt.Fprintf(&b, "\tScreen output: (host) - verbosity %d\n", o.verbosity)
	}
	fmt.Fprintf(&b, "\tIndividual selection %s\n", o.selection)
	fmt.Fprintf(&b, "\tIndividual replacement %s\n", o.replacement)
	return b.String()
}

// acquire obtains the solver capability for one Evolve call. The
// shared-library path holds libraryMu for the whole call; the returned
// release function must run on every exit path.
func (o *Optimizer) acquire() (solver.Capability, func(), error) {
	if o.newCapability != nil {
		capability, err := o.newCapability()
		if err != nil {
			return nil, nil, acquisitionError("acquire capability", err)
		}
		return capability, func() {}, nil
	}
	libraryMu.Lock()
	capability, err := plugin.Open(o.libraryPath)
	if err != nil {
		libraryMu.Unlock()
		return nil, nil, acquisitionError("load solver library", err)
	}
	return capability, libraryMu.Unlock, nil
}
