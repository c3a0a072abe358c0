package ctxbudget

import (
	"context"
	"strings"

	"neuronos/internal/engine"
	"neuronos/internal/memstore"
	"neuronos/pkg/types"
)

// summarizationTemperature is the low temperature compaction uses when
// asking the engine to summarize older turns.
const summarizationTemperature = 0.2

// Recaller is the subset of *memstore.Store compaction needs, named so
// tests can substitute a fake without pulling in a real database.
type Recaller interface {
	RecallAppend(ctx context.Context, role types.Role, text, tag string) (int64, error)
}

var _ Recaller = (*memstore.Store)(nil)

// Compact runs the compaction procedure against turns. It is
// idempotent: if fewer than RetentionWindow+1 exchanges exist, it
// returns turns unchanged and ran=false. Otherwise it writes every
// summarized turn to recall before discarding it, then returns a new
// slice with the older turns replaced by a single system-role summary
// turn tagged "compaction_summary".
func (a *Accountant) Compact(ctx context.Context, turns []types.ConversationTurn, h engine.Handle, recall Recaller) ([]types.ConversationTurn, bool, error) {
	startIdx := 0
	if len(turns) > 0 && turns[0].Role == types.RoleSystem {
		startIdx = 1
	}

	window := a.RetentionWindow
	if window <= 0 {
		window = DefaultRetentionWindow
	}

	exchangeHeads := make([]int, 0)
	for i := startIdx; i < len(turns); i++ {
		if turns[i].Role == types.RoleUser {
			exchangeHeads = append(exchangeHeads, i)
		}
	}
	if len(exchangeHeads) <= window {
		return turns, false, nil
	}

	boundaryIdx := exchangeHeads[len(exchangeHeads)-window]
	toSummarize := turns[startIdx:boundaryIdx]
	if len(toSummarize) == 0 {
		return turns, false, nil
	}

	for _, t := range toSummarize {
		if _, err := recall.RecallAppend(ctx, t.Role, t.Text, t.Tag); err != nil {
			return nil, false, err
		}
	}

	summaryText, err := summarize(ctx, h, toSummarize)
	if err != nil {
		return nil, false, err
	}
	tokenCount, err := h.Tokenize(summaryText)
	if err != nil {
		tokenCount = 0
	}
	summaryTurn := types.ConversationTurn{
		ID: "compaction-summary",
		Role: types.RoleSystem,
		Text: summaryText,
		TokenCount: tokenCount,
		Tag: "compaction_summary",
	}

	out := make([]types.ConversationTurn, 0, len(turns)-len(toSummarize)+1)
	if startIdx == 1 {
		out = append(out, turns[0])
	}
	out = append(out, summaryTurn)
	out = append(out, turns[boundaryIdx:]...)

	return out, true, nil
}

// summarize composes a dedicated summarization prompt from the turns
// being discarded and asks the engine for a low-temperature summary.
func summarize(ctx context.Context, h engine.Handle, turns []types.ConversationTurn) (string, error) {
	var b strings.Builder
	b.WriteString("Summarize the following conversation turns concisely, preserving facts, decisions, and outstanding tasks:\n\n")
	for _, t := range turns {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}

	res, err := h.Generate(ctx, engine.GenerateOptions{
		Prompt: b.String(),
		MaxTokens: 512,
		Temperature: summarizationTemperature,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
