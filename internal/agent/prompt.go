package agent

import (
	"context"
	"strings"
)

const systemPreamble = `You are NeuronOS, a local agent. For every step, respond with exactly one JSON object of one of these two shapes:
{"action": "tool", "tool": NAME, "args": {...}, "thought": STR}
{"action": "final", "answer": STR, "thought": STR}
Do not emit anything other than the JSON object.`

const strictReminder = `Your previous output could not be parsed as JSON matching one of the two required shapes. Respond again with exactly one valid JSON object and nothing else.`

// composePrompt builds the full prompt for one sampling call: system
// preamble, tool descriptions, Core memory blocks, then the conversation
// turns so far.
func (c *Controller) composePrompt(ctx context.Context, retryReminder bool) (string, error) {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\nTools:\n")
	b.WriteString(c.tools.PromptDescription())

	blocks, err := c.memory.CoreAll(ctx)
	if err != nil {
		return "", err
	}
	if len(blocks) > 0 {
		b.WriteString("\nMemory:\n")
		for _, blk := range blocks {
			b.WriteString(blk.Name)
			b.WriteString(": ")
			b.WriteString(blk.Text)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nConversation:\n")
	for _, t := range c.Turns() {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}

	if retryReminder {
		b.WriteString("\n")
		b.WriteString(strictReminder)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// compactIfNeeded checks the composed prompt's token count against the
// 85% threshold and runs compaction in place when crossed.
func (c *Controller) compactIfNeeded(ctx context.Context, promptText string) error {
	promptTokens, err := c.handle.Tokenize(promptText)
	if err != nil {
		return err
	}
	if !c.accountant.NeedsCompaction(promptTokens) {
		return nil
	}

	c.mu.Lock()
	turns := c.turns
	c.mu.Unlock()

	newTurns, ran, err := c.accountant.Compact(ctx, turns, c.handle, c.memory)
	if err != nil {
		return err
	}
	if ran {
		c.mu.Lock()
		c.turns = newTurns
		c.mu.Unlock()
	}
	return nil
}
