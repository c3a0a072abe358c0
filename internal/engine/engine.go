// Package engine defines the inference engine adapter contract:
// load, info, generate, tokenize, free. It is the only package in the
// core permitted to interact with the underlying transformer
// implementation; every other component — the agent controller, the
// context accountant, the CLI — talks to a model exclusively through the
// Engine interface in this file.
//
// Two implementations satisfy the interface, split by build tag:
// adapter_llama.go (tag "llama") binds github.com/go-skynet/go-llama.cpp;
// adapter_stub.go (tag "!llama") returns errs.BackendUnavailable so a
// CGO-free build still links and fails clearly instead of silently
// no-opping.
package engine

import "context"

// LoadOptions configures Load.
type LoadOptions struct {
	ContextSize int
	MMap bool
	Threads int
}

// Info describes a loaded model.
type Info struct {
	NParams int64
	NVocab int
	NCtxTrain int
	NEmbd int
	ModelSizeB int64
}

// GenerateOptions parameterizes one Generate call. OnToken
// receives decoded text chunks as they are produced; returning false
// cancels generation early, bridged to go-llama.cpp's token callback in
// adapter_llama.go.
type GenerateOptions struct {
	Prompt string
	MaxTokens int
	Temperature float32
	TopP float32
	TopK int
	Grammar string
	Seed int
	OnToken func(chunk string) bool
}

// FinishReason enumerates why Generate stopped.
type FinishReason string

const (
	FinishStop FinishReason = "stop"
	FinishMaxTokens FinishReason = "max_tokens"
	FinishCancelled FinishReason = "cancelled"
	FinishError FinishReason = "error"
)

// GenerateResult is the outcome of one Generate call.
type GenerateResult struct {
	Status string
	NTokens int
	ElapsedMS int64
	TokensPerSec float64
	FinishReason FinishReason
	Text string
}

// Handle identifies a loaded model for the lifetime of one process.
type Handle interface {
	// Info returns static information about the loaded model.
	Info() Info
	// Generate runs one sampling pass against the loaded model.
	Generate(ctx context.Context, opts GenerateOptions) (GenerateResult, error)
	// Tokenize returns the token count text would occupy, for context
	// accounting — it does not run generation.
	Tokenize(text string) (int, error)
	// Free releases the handle's resources. Calling any other method
	// after Free is undefined.
	Free() error
}

// Engine loads models into Handles.
type Engine interface {
	Load(path string, opts LoadOptions) (Handle, error)
}
