package agent

import (
	"context"

	"neuronos/internal/engine"
	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

// Run drives the ReAct loop to completion: INIT -> PROMPTING ->
// SAMPLING -> PARSING -> {EXECUTING, FINAL, FAILED}, looping
// EXECUTING -> PROMPTING. onStep may be nil.
func (c *Controller) Run(ctx context.Context, prompt string, onStep StepCallback) (Result, error) {
	start := nowMS()
	c.setState(StateInit)
	c.appendTurn(types.ConversationTurn{Role: types.RoleUser, Text: prompt})

	for step := 0;; step++ {
		select {
		case <-ctx.Done():
			return Result{Status: "cancelled", StepsTaken: step, TotalMS: nowMS() - start}, errs.Cancelled("agent: run cancelled")
		default:
		}

		if step >= c.cfg.MaxSteps {
			c.setState(StateFailed)
			return c.bestEffortResult("step_budget_exhausted", step, start), errs.StepBudgetExhausted("agent: exceeded %d steps", c.cfg.MaxSteps)
		}

		info, final, result, err := c.runOneStep(ctx, step)
		if err != nil {
			c.setState(StateFailed)
			return Result{Status: "failed", StepsTaken: step, TotalMS: nowMS() - start}, err
		}
		if onStep != nil {
			onStep(info)
		}
		if final {
			c.setState(StateFinal)
			result.StepsTaken = step + 1
			result.TotalMS = nowMS() - start
			return result, nil
		}
	}
}

// runOneStep executes one cycle of the per-step procedure ( steps
// 1-6). It returns (info, final, result, err); when final is true,
// result carries the terminal Result to return from Run.
func (c *Controller) runOneStep(ctx context.Context, step int) (StepInfo, bool, Result, error) {
	c.setState(StatePrompting)
	promptText, err := c.composePrompt(ctx, false)
	if err != nil {
		return StepInfo{}, false, Result{}, err
	}
	if err := c.compactIfNeeded(ctx, promptText); err != nil {
		return StepInfo{}, false, Result{}, err
	}
	// Recompose after a possible compaction so the sampled step sees the
	// trimmed conversation.
	promptText, err = c.composePrompt(ctx, false)
	if err != nil {
		return StepInfo{}, false, Result{}, err
	}

	c.setState(StateSampling)
	act, raw, err := c.sampleAction(ctx, promptText)
	if err != nil {
		return StepInfo{}, false, Result{}, err
	}

	c.setState(StateExecuting)
	return c.dispatch(ctx, step, act, raw)
}

// sampleAction runs Generate and parses its output, retrying once with a
// stricter reminder on malformed JSON before giving up.
func (c *Controller) sampleAction(ctx context.Context, promptText string) (action, string, error) {
	raw, err := c.generateStep(ctx, promptText)
	if err != nil {
		return action{}, "", err
	}
	c.setState(StateParsing)
	act, perr := parseAction(raw)
	if perr == nil {
		return act, raw, nil
	}

	retryPrompt, err := c.composePrompt(ctx, true)
	if err != nil {
		return action{}, "", err
	}
	raw2, err := c.generateStep(ctx, retryPrompt)
	if err != nil {
		return action{}, "", err
	}
	c.setState(StateParsing)
	act, perr2 := parseAction(raw2)
	if perr2 != nil {
		return action{}, "", errs.ParseError("agent: malformed action JSON after retry: %v", perr2)
	}
	return act, raw2, nil
}

func (c *Controller) generateStep(ctx context.Context, promptText string) (string, error) {
	res, err := c.handle.Generate(ctx, engine.GenerateOptions{
		Prompt: promptText,
		MaxTokens: c.cfg.MaxTokensPerStep,
		Temperature: c.cfg.Temperature,
		Grammar: c.grammarForStep(),
	})
	if err != nil {
		return "", errs.EngineError("agent: generate: %v", err)
	}
	return res.Text, nil
}

// dispatch implements: final answers terminate the loop;
// tool actions are looked up, capability-checked, executed, and their
// result appended as an atomic assistant/tool pair (step 6).
func (c *Controller) dispatch(ctx context.Context, step int, act action, raw string) (StepInfo, bool, Result, error) {
	if act.Action == actionFinal {
		info := StepInfo{Step: step, Thought: act.Thought, ActionJSON: raw, Observation: ""}
		c.appendTurn(types.ConversationTurn{Role: types.RoleAssistant, Text: act.Answer})
		return info, true, Result{Status: "ok", Answer: act.Answer}, nil
	}

	observation := c.runTool(ctx, act)
	truncated := observation
	if len(truncated) > ObservationCap {
		truncated = truncated[:ObservationCap]
	}

	callRef := &types.ToolCallRef{Tool: act.Tool, Args: string(act.Args)}
	c.appendTurn(types.ConversationTurn{Role: types.RoleAssistant, Text: act.Thought, ToolCall: callRef})
	c.appendTurn(types.ConversationTurn{Role: types.RoleTool, Text: truncated})

	if _, err := c.memory.RecallAppend(ctx, types.RoleTool, truncated, ""); err != nil {
		return StepInfo{}, false, Result{}, err
	}

	info := StepInfo{Step: step, Thought: act.Thought, ActionJSON: raw, Observation: truncated}
	return info, false, Result{}, nil
}

// runTool looks up and executes the requested tool, translating unknown
// tools and permission failures into observation text rather than Go
// errors (the "tool failures become observations" policy).
func (c *Controller) runTool(ctx context.Context, act action) string {
	if c.depth >= MaxReentrantDepth {
		return "error: tool call depth limit exceeded"
	}
	c.depth++
	defer func() { c.depth-- }()

	if _, ok := c.tools.Get(act.Tool); !ok {
		return "unknown tool: " + act.Tool
	}
	res := c.tools.Execute(ctx, act.Tool, string(act.Args), c.cfg.GrantedCaps)
	if res.Success {
		return res.Output
	}
	return res.Err
}

func (c *Controller) bestEffortResult(status string, steps int, start int64) Result {
	turns := c.Turns()
	var lastAssistant string
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == types.RoleAssistant {
			lastAssistant = turns[i].Text
			break
		}
	}
	return Result{Status: status, Answer: lastAssistant, StepsTaken: steps, TotalMS: nowMS() - start}
}
