// Package plugin is the acquisition boundary for shared-library solver
// capabilities. The actual dynamic loading and symbol binding is an
// external concern: an integration registers a Binder (typically from a
// cgo-backed package init), and Open validates the artifact path, resolves
// the binder, and wraps every failure with a diagnostic naming the likely
// causes. No solver record is ever touched before acquisition succeeds.
package plugin

import (
	"fmt"
	"os"
	"sync"

	"github.com/copyleftdev/BOREAL/internal/solver"
)

// Binder turns a validated artifact path into a bound solver capability.
// It must fail when any of the required entry points is missing.
type Binder func(path string) (solver.Capability, error)

var (
	binderMu sync.Mutex
	binder   Binder
)

// RegisterBinder installs the shared-library binder. Intended to be called
// once from the init of an integration package; a later call replaces the
// earlier binder.
func RegisterBinder(b Binder) {
	binderMu.Lock()
	defer binderMu.Unlock()
	binder = b
}

// Open acquires a capability backed by the shared library at path. The
// caller serializes Open against concurrent acquisitions; loading is not
// guaranteed reentrant-safe.
func Open(path string) (solver.Capability, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf(
			"the solver library path was constructed to be %q and it does not appear to be a file", path)
	}

	binderMu.Lock()
	b := binder
	binderMu.Unlock()
	if b == nil {
		return nil, fmt.Errorf(
			"no shared-library binder is linked into this build; register one with plugin.RegisterBinder or configure an explicit capability")
	}

	capability, err := b(path)
	if err != nil {
		return nil, fmt.Errorf(
			"an error occurred while loading the solver library at run-time; this is typically caused by one of the following reasons: "+
				"the file %q is not a shared library containing the required entry points, or it needs additional libraries that are not found at run-time; "+
				"the original error was: %w", path, err)
	}
	return capability, nil
}
