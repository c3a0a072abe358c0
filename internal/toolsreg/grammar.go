package toolsreg

import "strings"

// GrammarFragment produces the GBNF tool-name rule used to constrain the
// model's sampled tool-call JSON: one alternative per registered
// tool, in registration order.
func (r *Registry) GrammarFragment() string {
	names := r.Names()
	alts := make([]string, len(names))
	for i, n := range names {
		alts[i] = `"\"` + n + `\""`
	}
	return "tool-name::= " + strings.Join(alts, " | ")
}

// PromptDescription renders the tool listing injected into the system
// prompt: one line per tool, in registration order.
func (r *Registry) PromptDescription() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var b strings.Builder
	for _, name := range r.order {
		d := r.byName[name]
		b.WriteString("- ")
		b.WriteString(d.Name)
		b.WriteString(": ")
		b.WriteString(d.Description)
		b.WriteString(" Args schema: ")
		b.WriteString(d.ArgsSchema)
		b.WriteString("\n")
	}
	return b.String()
}
