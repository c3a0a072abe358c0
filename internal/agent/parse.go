package agent

import (
	"encoding/json"

	"neuronos/pkg/errs"
)

// actionKind is one of the two JSON shapes the model may emit.
type actionKind string

const (
	actionTool actionKind = "tool"
	actionFinal actionKind = "final"
)

// action is the decoded JSON the model emits each step.
type action struct {
	Action actionKind `json:"action"`
	Tool string `json:"tool,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
	Answer string `json:"answer,omitempty"`
	Thought string `json:"thought"`
}

// parseAction decodes raw model output into an action. It returns
// errs.ParseError on malformed JSON or an unrecognized action kind; the
// caller (runStep) retries once before treating this as fatal.
func parseAction(raw string) (action, error) {
	var a action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return action{}, errs.ParseError("agent: malformed action JSON: %v", err)
	}
	switch a.Action {
	case actionTool:
		if a.Tool == "" {
			return action{}, errs.ParseError("agent: tool action missing tool name")
		}
	case actionFinal:
		// Answer may legitimately be empty; Action must still be final.
	default:
		return action{}, errs.ParseError("agent: unrecognized action %q", a.Action)
	}
	return a, nil
}

// grammarForStep builds the GBNF-flavored constraint string passed to
// Generate: the registry's tool-name fragment plus the fixed top-level
// JSON shape. The engine adapter is under no obligation to
// honor this exactly — go-llama.cpp's binding has no native grammar
// option (see internal/engine's DESIGN.md note) — but it is always
// composed so a future grammar-capable backend can consume it.
func (c *Controller) grammarForStep() string {
	return c.tools.GrammarFragment() + "\n" +
		`root::= "{" "\"action\"" ":" ("\"tool\"" | "\"final\"") ","... "}"`
}
