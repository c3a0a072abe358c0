package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"neuronos/internal/config"
	"neuronos/internal/engine"
	"neuronos/internal/hwprobe"
	"neuronos/internal/registry"
	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

func newAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "auto",
		Short: "Auto-select the best-scoring model for this hardware, then generate or agent",
	}
	cmd.AddCommand(newAutoGenerateCmd(), newAutoAgentCmd())
	return cmd
}

func newAutoGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use: "generate <prompt>",
		Short: "Auto-select a model and generate text from a prompt",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			handle, _, err := autoLoad(cfg)
			if err != nil {
				return err
			}
			defer handle.Free()
			return runGenerate(handle, args[0])
		},
	}
}

func newAutoAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use: "agent <task>",
		Short: "Auto-select a model and run the ReAct agent loop",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			handle, best, err := autoLoad(cfg)
			if err != nil {
				return err
			}
			defer handle.Free()
			return runAgent(handle, cfg, hwprobe.Detect(), best.Name, args[0])
		},
	}
}

// autoLoad detects hardware, scans modelsDir, selects the best
// candidate, then loads it.
func autoLoad(cfg config.Config) (engine.Handle, types.ModelEntry, error) {
	hw := hwprobe.Detect()

	entries, err := registry.Scan(cfg.ModelsDir, hw)
	if err != nil {
		return nil, types.ModelEntry{}, err
	}
	if len(entries) == 0 {
		return nil, types.ModelEntry{}, errs.NotFound("no GGUF models found in %s (use --models to specify a directory)", cfg.ModelsDir)
	}

	best, ok := registry.SelectBest(entries)
	if !ok {
		return nil, types.ModelEntry{}, errs.ResourceExhausted("no model fits in available RAM (%d MB budget)", hw.ModelBudgetMB())
	}

	fmt.Fprintf(os.Stderr, "★ Auto-selected: %s (score=%.1f, %.0f MB)\n", best.Name, best.Score, best.FileSizeMB)

	handle, err := loadHandle(best.Path, cfg.ContextCapacity)
	if err != nil {
		return nil, types.ModelEntry{}, err
	}
	return handle, best, nil
}
