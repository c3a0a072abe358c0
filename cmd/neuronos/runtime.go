package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"neuronos/internal/agent"
	"neuronos/internal/config"
	"neuronos/internal/diag"
	"neuronos/internal/engine"
	"neuronos/internal/memstore"
	"neuronos/internal/obslog"
	"neuronos/internal/toolsreg"
	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

// loadHandle constructs one Engine per process invocation and asks it
// to load exactly one model.
func loadHandle(modelPath string, contextSize int) (engine.Handle, error) {
	eng := engine.NewLlamaEngine()
	h, err := eng.Load(modelPath, engine.LoadOptions{
		ContextSize: contextSize,
		MMap: true,
		Threads: flags.threads,
	})
	if err != nil {
		return nil, errs.EngineError("failed to load model %s: %v", modelPath, err)
	}
	return h, nil
}

// runGenerate drives one Generate call, streaming tokens to stdout as
// they are produced.
func runGenerate(handle engine.Handle, prompt string) error {
	if prompt == "" {
		return errs.InvalidArgument("no prompt provided")
	}
	grammar := ""
	if flags.grammar != "" {
		b, err := os.ReadFile(flags.grammar)
		if err != nil {
			return errs.IOError("reading grammar file: %v", err)
		}
		grammar = string(b)
	}

	result, err := handle.Generate(context.Background(), engine.GenerateOptions{
		Prompt: prompt,
		MaxTokens: flags.maxTokens,
		Temperature: flags.temp,
		TopP: 0.95,
		TopK: 40,
		Grammar: grammar,
		OnToken: func(chunk string) bool {
			fmt.Print(chunk)
			return true
		},
	})
	fmt.Println()
	if err != nil {
		return errs.EngineError("generate: %v", err)
	}
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "\n[%d tokens, %d ms, %.2f t/s]\n", result.NTokens, result.ElapsedMS, result.TokensPerSec)
	}
	if result.FinishReason == engine.FinishError {
		return errs.EngineError("generation finished with an error")
	}
	return nil
}

// buildController wires tools, memory, and the context accountant
// around handle into a ready-to-run Controller.
func buildController(handle engine.Handle, cfg config.Config) (*agent.Controller, *memstore.Store, error) {
	tools := toolsreg.NewRegistry()
	if err := toolsreg.RegisterBuiltins(tools); err != nil {
		return nil, nil, err
	}

	mem, err := memstore.Open(cfg.MemoryDBPath)
	if err != nil {
		return nil, nil, err
	}

	caps := parseGrantedCaps(cfg.GrantedCaps)
	ctrl := agent.New(handle, tools, mem, agent.Config{
		MaxSteps: cfg.MaxSteps,
		MaxTokensPerStep: cfg.MaxTokensPerStep,
		Temperature: float32(cfg.Temperature),
		ContextCapacity: cfg.ContextCapacity,
		GrantedCaps: caps,
	})
	return ctrl, mem, nil
}

// runAgent executes the ReAct loop to completion, printing each step and
// the final answer, and optionally serving the debug HTTP surface for
// the loop's duration.
func runAgent(handle engine.Handle, cfg config.Config, hw types.HardwareInfo, modelName, prompt string) error {
	if prompt == "" {
		return errs.InvalidArgument("no task provided")
	}

	ctrl, mem, err := buildController(handle, cfg)
	if err != nil {
		return err
	}
	defer mem.Close()

	if cfg.DebugAddr != "" {
		svc := &controllerService{ctrl: ctrl, hw: hw, modelName: modelName}
		srv := &http.Server{Addr: cfg.DebugAddr, Handler: diag.NewMux(svc, cfg.DebugCors)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				lg := obslog.Logger()
				lg.Error().Err(err).Msg("debug server stopped")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	fmt.Fprintf(os.Stderr, "Task: %s\n", prompt)
	fmt.Fprintf(os.Stderr, "Tools: registered\n")
	fmt.Fprintln(os.Stderr, "Running...")

	start := time.Now()
	result, err := ctrl.Run(context.Background(), prompt, printStep)
	if err != nil && !errs.IsStepBudgetExhausted(err) {
		return err
	}
	printResult(result)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "[%d steps, %s]\n", result.StepsTaken, time.Since(start).Round(time.Millisecond))
	}
	return err
}

// controllerService adapts a live Controller to internal/diag.Service.
type controllerService struct {
	ctrl *agent.Controller
	hw types.HardwareInfo
	modelName string
}

func (s *controllerService) Ready() bool { return true }

func (s *controllerService) Hardware() types.HardwareInfo { return s.hw }

func (s *controllerService) Status() diag.StatusReport {
	return diag.StatusReport{
		AgentState: s.ctrl.State(),
		ActiveModel: s.modelName,
		StepsTaken: len(s.ctrl.Turns()),
	}
}
