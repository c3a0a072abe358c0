package toolsreg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeArgs is the single shared structured JSON argument parser every
// built-in tool uses. Callers pass a pointer to a typed struct with
// json tags; a malformed or type-mismatched payload returns a
// descriptive error rather than silently zero-valuing fields.
func DecodeArgs(argsJSON string, dst any) error {
	dec := json.NewDecoder(strings.NewReader(argsJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("toolsreg: invalid arguments: %w", err)
	}
	return nil
}
