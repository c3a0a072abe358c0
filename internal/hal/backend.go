// Package hal implements a runtime-dispatched backend table for ternary
// I2_S x int8 matrix kernels: a named, priority-ordered, feature-gated
// set of scalar and SIMD implementations selected once at startup based
// on detected CPU features, with optional init/shutdown lifecycle hooks.
package hal

import (
	"fmt"
	"sync"

	"neuronos/pkg/types"
)

// BlockConfig carries the block-shape parameters a backend was tuned
// for.
type BlockConfig struct {
	RowBlock int
	ColBlock int
	Parallel int
	QKI2S int
}

// VecDotFunc computes nrc row-wise dot products between packed I2_S rows
// and a single int8 activation vector of length n. x holds nrc rows back
// to back, each RowBytes(n) bytes long.
type VecDotFunc func(n int, x []byte, y []int8, nrc int) []float32

// QuantizeFunc quantizes a float32 row into its packed I2_S
// representation.
type QuantizeFunc func(src []float32) []byte

// GemvFunc computes a matrix-vector product: nr packed rows against one
// activation vector of length n.
type GemvFunc func(n int, x []byte, y []int8, nr int) []float32

// GemmFunc computes a matrix-matrix product: nr packed rows against nc
// activation vectors (y holds nc vectors of length n back to back),
// returning nr*nc results in row-major order.
type GemmFunc func(n int, x []byte, y []int8, nr, nc int) []float32

// Backend bundles the four kernel operations plus optional lifecycle
// hooks under a name, a priority, and the CPU feature mask it requires.
type Backend struct {
	Name             string
	Priority         int
	RequiredFeatures types.Feature
	Config           BlockConfig

	VecDotI2I8 VecDotFunc
	QuantizeI2 QuantizeFunc
	GemvI2I8   GemvFunc
	GemmI2I8   GemmFunc

	Init     func() error
	Shutdown func()
}

// table is the process-wide, statically registered backend set,
// descending by priority. Populated by each backend's init via
// register; treated as immutable once the program finishes its
// package-init backend registrations.
var table []*Backend

func register(b *Backend) {
	table = append(table, b)
	// keep descending-priority order so SelectBackend's linear scan
	// returns the first eligible, highest-priority entry.
	for i := len(table) - 1; i > 0 && table[i].Priority > table[i-1].Priority; i-- {
		table[i], table[i-1] = table[i-1], table[i]
	}
}

var (
	mu     sync.Mutex
	active *Backend
)

// SelectBackend iterates the backend table in descending priority and
// returns the first whose RequiredFeatures is a subset of features. The
// scalar backend has priority 0 and RequiredFeatures 0, guaranteeing
// termination.
func SelectBackend(features types.Feature) (*Backend, error) {
	for _, b := range table {
		if features&b.RequiredFeatures == b.RequiredFeatures {
			return b, nil
		}
	}
	return nil, fmt.Errorf("hal: no backend satisfies feature mask %b", features)
}

// Activate selects and initializes the best backend for features,
// shutting down any previously active backend first — only one backend
// is active at a time. If a higher-priority backend's Init fails,
// Activate falls through to the next eligible backend.
func Activate(features types.Feature) (*Backend, error) {
	mu.Lock()
	defer mu.Unlock()

	var candidates []*Backend
	for _, b := range table {
		if features&b.RequiredFeatures == b.RequiredFeatures {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("hal: no backend satisfies feature mask %b", features)
	}

	if active != nil && active.Shutdown != nil {
		active.Shutdown()
	}
	active = nil

	var lastErr error
	for _, b := range candidates {
		if b.Init != nil {
			if err := b.Init(); err != nil {
				lastErr = err
				continue
			}
		}
		active = b
		return b, nil
	}
	return nil, fmt.Errorf("hal: all eligible backends failed to init, last error: %w", lastErr)
}

// Active returns the currently active backend, or nil if none has been
// activated yet.
func Active() *Backend {
	mu.Lock()
	defer mu.Unlock()
	return active
}

// Shutdown tears down the active backend and clears it, for process
// shutdown.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if active != nil && active.Shutdown != nil {
		active.Shutdown()
	}
	active = nil
}
