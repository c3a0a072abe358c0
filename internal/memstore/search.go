package memstore

import "strings"

// sanitizeFTSQuery wraps each term in double quotes so that words like
// "and", "or", "not" are treated as literal text rather than FTS5 query
// operators, then joins them with OR for broad recall.
func sanitizeFTSQuery(query string) string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		clean := strings.Map(func(r rune) rune {
			if r == '"' {
				return -1
			}
			return r
		}, w)
		if clean != "" {
			quoted = append(quoted, `"`+clean+`"`)
		}
	}
	return strings.Join(quoted, " OR ")
}
