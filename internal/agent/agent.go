// Package agent implements the ReAct agent controller: a
// single-threaded state machine driving an inference engine handle, a
// grammar-constrained tool-call parser, and the tool/memory
// subsystems, through an exact seven-step per-step procedure.
//
// The state machine shape — a mutex-guarded struct with a State enum and
// a snapshot accessor — generalizes a model-instance lifecycle pattern
// to an agent-step lifecycle. The CLI-visible step callback and the
// overall run/result shape mirror a step-trace/agent-run presentation
// long used by command-line model tooling.
package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"neuronos/internal/ctxbudget"
	"neuronos/internal/engine"
	"neuronos/internal/memstore"
	"neuronos/internal/toolsreg"
	"neuronos/pkg/types"
)

// State is one state of the ReAct controller.
type State string

const (
	StateInit State = "init"
	StatePrompting State = "prompting"
	StateSampling State = "sampling"
	StateParsing State = "parsing"
	StateExecuting State = "executing"
	StateFinal State = "final"
	StateFailed State = "failed"
)

// ObservationCap bounds how much of a tool's output is kept as the
// observation appended to the conversation ('s "e.g. 4 KiB").
const ObservationCap = 4096

// MaxReentrantDepth is the initial depth limit for tool calls that
// themselves invoke the engine (the closing paragraph).
const MaxReentrantDepth = 1

// StepInfo is emitted once per completed step.
type StepInfo struct {
	Step int
	Thought string
	ActionJSON string
	Observation string
}

// StepCallback receives one StepInfo per completed step.
type StepCallback func(StepInfo)

// Config parameterizes one Controller.
type Config struct {
	MaxSteps int
	MaxTokensPerStep int
	Temperature float32
	ContextCapacity int
	GrantedCaps types.Capability
}

// Result is the terminal outcome of Run.
type Result struct {
	Status string
	Answer string
	StepsTaken int
	TotalMS int64
}

// Controller is a single-conversation ReAct agent loop. It owns no
// goroutines of its own; Run blocks until the loop reaches a terminal
// state or the caller's context is cancelled.
type Controller struct {
	mu sync.RWMutex
	state State

	handle engine.Handle
	tools *toolsreg.Registry
	memory *memstore.Store
	accountant *ctxbudget.Accountant
	cfg Config

	turns []types.ConversationTurn
	depth int
}

// New constructs a Controller. handle, tools, and memory must be
// non-nil; the controller does not own their lifecycle.
func New(handle engine.Handle, tools *toolsreg.Registry, memory *memstore.Store, cfg Config) *Controller {
	return &Controller{
		state: StateInit,
		handle: handle,
		tools: tools,
		memory: memory,
		accountant: ctxbudget.New(cfg.ContextCapacity),
		cfg: cfg,
	}
}

// State returns the controller's current state under a read lock.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Turns returns a shallow copy of the conversation so far.
func (c *Controller) Turns() []types.ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Controller) appendTurn(t types.ConversationTurn) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	n, err := c.handle.Tokenize(t.Text)
	if err == nil {
		t.TokenCount = n
	}
	c.mu.Lock()
	c.turns = append(c.turns, t)
	c.mu.Unlock()
}

func nowMS() int64 {
	return time.Now().UnixMilli()
}
