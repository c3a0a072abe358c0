//go:build !llama

package engine

// This file provides a no-CGO stub for the inference engine. It is
// compiled when the "llama" build tag is not set, keeping default builds
// CGO-free; the real adapter lives in adapter_llama.go (tag "llama").

import (
	"context"

	"neuronos/pkg/errs"
)

type stubEngine struct{}

// NewLlamaEngine returns a stub Engine that refuses to load any model,
// present under this name so callers can select the engine without an
// intervening build-tag switch of their own.
func NewLlamaEngine() Engine {
	return &stubEngine{}
}

type stubHandle struct{}

func (e *stubEngine) Load(path string, opts LoadOptions) (Handle, error) {
	return nil, errs.BackendUnavailable("engine: llama support not built (missing 'llama' build tag)")
}

func (h *stubHandle) Info() Info {
	return Info{}
}

func (h *stubHandle) Generate(ctx context.Context, opts GenerateOptions) (GenerateResult, error) {
	select {
	case <-ctx.Done():
		return GenerateResult{}, ctx.Err()
	default:
	}
	return GenerateResult{}, errs.BackendUnavailable("engine: llama support not built (missing 'llama' build tag)")
}

func (h *stubHandle) Tokenize(text string) (int, error) {
	return estimateTokens(text), nil
}

func (h *stubHandle) Free() error {
	return nil
}
