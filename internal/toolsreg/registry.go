// Package toolsreg implements the tool registry: a name ->
// descriptor mapping with capability gating, deterministic
// registration-order iteration for grammar output, and the built-in
// tools shell/read_file/write_file/calculate. Lookup is amortized
// constant time, backed by a Go map with a name slice kept alongside
// it for registration order.
package toolsreg

import (
	"context"
	"sync"
	"time"

	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

// Executor runs a tool given its decoded JSON arguments, as a normal Go
// closure capturing whatever state the executor needs.
type Executor func(ctx context.Context, argsJSON string) ToolResult

// ToolResult is the outcome of one tool execution. The caller owns
// the value after Execute returns.
type ToolResult struct {
	Success bool
	Output string
	Err string
}

// Descriptor is one registered tool.
type Descriptor struct {
	Name string
	Description string
	ArgsSchema string // human-readable JSON schema, injected into prompts
	Execute Executor
	RequiredCaps types.Capability
}

// Registry is an ordered name -> Descriptor mapping:
// registration order is preserved for deterministic grammar/prompt
// output, and lookup is amortized O(1) via the backing map.
type Registry struct {
	mu sync.RWMutex
	order []string
	byName map[string]Descriptor

	// DefaultTimeout bounds how long Execute lets a tool run before
	// returning a timeout failure (the default 30s).
	DefaultTimeout time.Duration
}

// NewRegistry returns an empty registry with the default tool
// timeout.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Descriptor),
		DefaultTimeout: 30 * time.Second,
	}
}

// Register adds desc to the registry. It fails on a duplicate name or a
// nil executor, leaving the registry unchanged (the uniqueness
// invariant).
func (r *Registry) Register(desc Descriptor) error {
	if desc.Name == "" {
		return errs.InvalidArgument("toolsreg: tool name must not be empty")
	}
	if desc.Execute == nil {
		return errs.InvalidArgument("toolsreg: tool %q has a nil executor", desc.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[desc.Name]; exists {
		return errs.InvalidArgument("toolsreg: tool %q already registered", desc.Name)
	}
	r.byName[desc.Name] = desc
	r.order = append(r.order, desc.Name)
	return nil
}

// Get returns the descriptor for name, if registered.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Execute looks up name and runs its executor with a per-call timeout,
// gated by the granted capability mask. Unknown
// tools and permission failures are returned as ToolResult, never as a
// Go error — tool-level failures are always absorbed as observations,
// never agent failures (the propagation policy).
func (r *Registry) Execute(ctx context.Context, name, argsJSON string, granted types.Capability) ToolResult {
	desc, ok := r.Get(name)
	if !ok {
		return ToolResult{Success: false, Err: "Tool not found"}
	}
	if !granted.Covers(desc.RequiredCaps) {
		return ToolResult{Success: false, Err: "permission denied"}
	}

	timeout := r.DefaultTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan ToolResult, 1)
	go func() {
		resultCh <- desc.Execute(execCtx, argsJSON)
	}()

	select {
	case res := <-resultCh:
		return res
	case <-execCtx.Done():
		return ToolResult{Success: false, Err: "timeout"}
	}
}
