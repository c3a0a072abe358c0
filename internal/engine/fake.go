package engine

import "context"

// FakeEngine is an in-memory Engine used by tests in this package and by
// the agent/ctxbudget packages' own test suites, so they can exercise
// the contract without a real model file or the "llama" build tag.
type FakeEngine struct {
	// Responses is consumed in order by successive Generate calls across
	// every handle this engine has loaded; once exhausted, Generate
	// returns the zero-value FakeResponse.
	Responses []FakeResponse
	calls int
}

// FakeResponse is one canned Generate outcome.
type FakeResponse struct {
	Text string
	FinishReason FinishReason
	Err error
}

type fakeHandle struct {
	engine *FakeEngine
	info Info
}

func (e *FakeEngine) Load(path string, opts LoadOptions) (Handle, error) {
	return &fakeHandle{engine: e, info: Info{NCtxTrain: opts.ContextSize}}, nil
}

func (h *fakeHandle) Info() Info {
	return h.info
}

func (h *fakeHandle) Generate(ctx context.Context, opts GenerateOptions) (GenerateResult, error) {
	select {
	case <-ctx.Done():
		return GenerateResult{FinishReason: FinishCancelled}, ctx.Err()
	default:
	}

	var resp FakeResponse
	if h.engine.calls < len(h.engine.Responses) {
		resp = h.engine.Responses[h.engine.calls]
	}
	h.engine.calls++

	if resp.Err != nil {
		return GenerateResult{}, resp.Err
	}
	if opts.OnToken != nil {
		opts.OnToken(resp.Text)
	}
	finish := resp.FinishReason
	if finish == "" {
		finish = FinishStop
	}
	return GenerateResult{
		Status: "ok",
		NTokens: estimateTokens(resp.Text),
		FinishReason: finish,
		Text: resp.Text,
	}, nil
}

func (h *fakeHandle) Tokenize(text string) (int, error) {
	return estimateTokens(text), nil
}

func (h *fakeHandle) Free() error {
	return nil
}
