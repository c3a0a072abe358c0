package toolsreg

import (
	"context"
	"os"

	"neuronos/pkg/types"
)

// MaxReadFileBytes bounds how much of a file read_file will return:
// large files would blow the model's context budget, so reads beyond
// this cap are truncated rather than rejected outright.
const MaxReadFileBytes = 32 * 1024

// ReadFileArgs is the JSON argument shape for the read_file tool.
type ReadFileArgs struct {
	Path string `json:"path"`
}

// WriteFileArgs is the JSON argument shape for the write_file tool.
type WriteFileArgs struct {
	Path string `json:"path"`
	Content string `json:"content"`
}

// NewReadFileDescriptor builds the read_file built-in, gated on
// CapFilesystem. Output is capped at MaxReadFileBytes.
func NewReadFileDescriptor() Descriptor {
	return Descriptor{
		Name: "read_file",
		Description: "Reads a file from disk and returns its contents, truncated to 32KiB.",
		ArgsSchema: `{"path": "string"}`,
		RequiredCaps: types.CapFilesystem,
		Execute: executeReadFile,
	}
}

func executeReadFile(_ context.Context, argsJSON string) ToolResult {
	var args ReadFileArgs
	if err := DecodeArgs(argsJSON, &args); err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}
	if args.Path == "" {
		return ToolResult{Success: false, Err: "read_file: path must not be empty"}
	}

	f, err := os.Open(args.Path)
	if err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}
	defer f.Close()

	buf := make([]byte, MaxReadFileBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return ToolResult{Success: false, Err: err.Error()}
	}
	return ToolResult{Success: true, Output: string(buf[:n])}
}

// NewWriteFileDescriptor builds the write_file built-in, gated on
// CapFilesystem.
func NewWriteFileDescriptor() Descriptor {
	return Descriptor{
		Name: "write_file",
		Description: "Writes content to a file on disk, creating or truncating it.",
		ArgsSchema: `{"path": "string", "content": "string"}`,
		RequiredCaps: types.CapFilesystem,
		Execute: executeWriteFile,
	}
}

func executeWriteFile(_ context.Context, argsJSON string) ToolResult {
	var args WriteFileArgs
	if err := DecodeArgs(argsJSON, &args); err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}
	if args.Path == "" {
		return ToolResult{Success: false, Err: "write_file: path must not be empty"}
	}
	if err := os.WriteFile(args.Path, []byte(args.Content), 0o644); err != nil {
		return ToolResult{Success: false, Err: err.Error()}
	}
	return ToolResult{Success: true, Output: "wrote " + args.Path}
}
