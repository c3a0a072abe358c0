package engine

import (
	"context"
	"testing"

	"neuronos/pkg/errs"
)

func TestEstimateTokensCountsWordsAndPunctuation(t *testing.T) {
	cases := map[string]int{
		"": 0,
		"hello": 1,
		"hello world": 2,
		"hello, world!": 4, // hello, world !
	}
	for text, want := range cases {
		got := estimateTokens(text)
		if got != want {
			t.Fatalf("estimateTokens(%q) = %d, want %d", text, got, want)
		}
	}
}

func TestStubEngineLoadReturnsBackendUnavailable(t *testing.T) {
	e := NewLlamaEngine()
	_, err := e.Load("/tmp/model.gguf", LoadOptions{})
	if !errs.IsBackendUnavailable(err) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}

func TestFakeEngineGenerateReturnsQueuedResponses(t *testing.T) {
	e := &FakeEngine{Responses: []FakeResponse{
		{Text: "first answer"},
		{Text: "second answer"},
	}}
	h, err := e.Load("fake.gguf", LoadOptions{ContextSize: 4096})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer h.Free()

	res1, err := h.Generate(context.Background(), GenerateOptions{Prompt: "q1"})
	if err != nil || res1.Text != "first answer" {
		t.Fatalf("unexpected first result: %+v err=%v", res1, err)
	}
	res2, err := h.Generate(context.Background(), GenerateOptions{Prompt: "q2"})
	if err != nil || res2.Text != "second answer" {
		t.Fatalf("unexpected second result: %+v err=%v", res2, err)
	}
}

func TestFakeEngineRespectsCancellation(t *testing.T) {
	e := &FakeEngine{}
	h, _ := e.Load("fake.gguf", LoadOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := h.Generate(ctx, GenerateOptions{Prompt: "q"})
	if err == nil || res.FinishReason != FinishCancelled {
		t.Fatalf("expected cancellation, got res=%+v err=%v", res, err)
	}
}
