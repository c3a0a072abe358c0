//go:build llama

package engine

import (
	"context"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"

	"neuronos/pkg/errs"
)

// llamaEngine binds the engine contract to go-llama.cpp. It holds no
// state of its own: load options arrive with each Load call, which opens
// the model.
type llamaEngine struct{}

// NewLlamaEngine returns the real Engine implementation, available only
// in binaries built with the "llama" tag.
func NewLlamaEngine() Engine {
	return &llamaEngine{}
}

type llamaHandle struct {
	model *llama.LLama
	info Info
}

func (e *llamaEngine) Load(path string, opts LoadOptions) (Handle, error) {
	if path == "" {
		return nil, errs.InvalidArgument("engine: model path is empty")
	}
	ctxSize := opts.ContextSize
	if ctxSize <= 0 {
		ctxSize = 2048
	}

	mo := []llama.ModelOption{llama.SetContext(ctxSize)}
	if opts.MMap {
		mo = append(mo, llama.SetMMap(true))
	}

	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, errs.EngineError("engine: load %s: %v", path, err)
	}

	return &llamaHandle{
		model: m,
		info: Info{
			NCtxTrain: ctxSize,
		},
	}, nil
}

func (h *llamaHandle) Info() Info {
	return h.info
}

func (h *llamaHandle) Generate(ctx context.Context, opts GenerateOptions) (GenerateResult, error) {
	if h.model == nil {
		return GenerateResult{}, errs.EngineError("engine: handle already freed")
	}

	start := time.Now()
	cancelled := false

	h.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			cancelled = true
			return false
		default:
		}
		if opts.OnToken != nil {
			return opts.OnToken(tok)
		}
		return true
	})

	po := buildPredictOptions(opts)
	text, err := h.model.Predict(opts.Prompt, po...)
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil || cancelled {
			return GenerateResult{FinishReason: FinishCancelled, ElapsedMS: elapsed.Milliseconds()}, nil
		}
		return GenerateResult{}, errs.EngineError("engine: generate: %v", err)
	}

	nTokens := estimateTokens(text)
	secs := elapsed.Seconds()
	var tps float64
	if secs > 0 {
		tps = float64(nTokens) / secs
	}

	return GenerateResult{
		Status: "ok",
		NTokens: nTokens,
		ElapsedMS: elapsed.Milliseconds(),
		TokensPerSec: tps,
		FinishReason: FinishStop,
		Text: text,
	}, nil
}

func (h *llamaHandle) Tokenize(text string) (int, error) {
	return estimateTokens(text), nil
}

func (h *llamaHandle) Free() error {
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

// buildPredictOptions maps GenerateOptions onto go-llama.cpp's
// PredictOption set. Grammar is enforced one layer up, by the agent
// controller retrying on a malformed parse — this binding
// does not expose a native GBNF grammar option.
func buildPredictOptions(opts GenerateOptions) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, opts.MaxTokens)),
	}
	if opts.Temperature > 0 {
		po = append(po, llama.SetTemperature(opts.Temperature))
	}
	if opts.TopP > 0 {
		po = append(po, llama.SetTopP(opts.TopP))
	}
	if opts.TopK > 0 {
		po = append(po, llama.SetTopK(opts.TopK))
	}
	if opts.Seed != 0 {
		po = append(po, llama.SetSeed(opts.Seed))
	}
	return po
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
