package toolsreg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"neuronos/pkg/types"
)

// ShellArgs is the JSON argument shape for the shell tool.
type ShellArgs struct {
	Command string `json:"command"`
}

// shellMetaAllowList is the set of shell metacharacters the command
// argument may contain. Anything outside this allow-list is rejected
// outright rather than re-escaped, since escaping a crafted argument
// correctly for every downstream shell is not reliable.
const shellMetaAllowList = " -_./:=@%,"

// NewShellDescriptor builds the shell built-in, gated on
// CapShell. The command is validated against shellMetaAllowList before
// it is handed to "sh -c", so the string the shell parses contains no
// quotes or other metacharacters and no quote-escaping bug is possible.
func NewShellDescriptor() Descriptor {
	return Descriptor{
		Name: "shell",
		Description: "Runs a shell command and returns its combined stdout/stderr.",
		ArgsSchema: `{"command": "string"}`,
		RequiredCaps: types.CapShell,
		Execute: executeShell,
	}
}

func executeShell(ctx context.Context, argsJSON string) ToolResult {
	var args ShellArgs
	if err := DecodeArgs(argsJSON, &args); err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}
	if strings.TrimSpace(args.Command) == "" {
		return ToolResult{Success: false, Err: "shell: command must not be empty"}
	}
	if err := validateShellCommand(args.Command); err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", args.Command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return ToolResult{Success: false, Output: out.String(), Err: err.Error()}
	}
	return ToolResult{Success: true, Output: out.String()}
}

// validateShellCommand rejects any character that is neither
// alphanumeric nor in shellMetaAllowList. This blocks shell metacharacters
// such as quotes, backticks, pipes, redirects, and command separators.
func validateShellCommand(command string) error {
	for _, r := range command {
		if r >= '0' && r <= '9' {
			continue
		}
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			continue
		}
		if strings.ContainsRune(shellMetaAllowList, r) {
			continue
		}
		return fmt.Errorf("shell: disallowed character %q in command", r)
	}
	return nil
}
