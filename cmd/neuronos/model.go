package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"neuronos/internal/gguf"
	"neuronos/internal/hwprobe"
	"neuronos/pkg/errs"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "model",
		Short: "Operate on an explicit model file (info, generate, agent, chat)",
	}
	cmd.AddCommand(
		newModelInfoCmd(),
		newModelGenerateCmd(),
		newModelAgentCmd(),
		newModelChatCmd(),
	)
	return cmd
}

func newModelInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use: "info <model.gguf>",
		Short: "Show model metadata and the local hardware profile",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := gguf.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("NeuronOS\n")
			fmt.Printf("Model: %s\n", info.Name)
			fmt.Printf("Architecture: %s\n", info.Architecture)
			fmt.Printf("Quantization: %s\n", info.QuantType)
			fmt.Printf("Size: %.1f MB\n", info.FileSizeMB)
			fmt.Println()
			printHWInfo(hwprobe.Detect())
			return nil
		},
	}
}

func newModelGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use: "generate <model.gguf> <prompt>",
		Short: "Generate text from a single prompt",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			handle, err := loadHandle(args[0], cfg.ContextCapacity)
			if err != nil {
				return err
			}
			defer handle.Free()
			return runGenerate(handle, args[1])
		},
	}
}

func newModelAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use: "agent <model.gguf> <task>",
		Short: "Run the ReAct agent loop with tools against an explicit model",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			hw := hwprobe.Detect()
			handle, err := loadHandle(args[0], cfg.ContextCapacity)
			if err != nil {
				return err
			}
			defer handle.Free()
			return runAgent(handle, cfg, hw, args[0], args[1])
		},
	}
}

func newModelChatCmd() *cobra.Command {
	return &cobra.Command{
		Use: "chat <model.gguf>",
		Short: "Interactive multi-turn agent session over stdin/stdout",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			_ = hwprobe.Detect()
			handle, err := loadHandle(args[0], cfg.ContextCapacity)
			if err != nil {
				return err
			}
			defer handle.Free()

			ctrl, mem, err := buildController(handle, cfg)
			if err != nil {
				return err
			}
			defer mem.Close()

			fmt.Println("NeuronOS chat — type 'exit' to quit.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return nil
				}
				line := scanner.Text()
				if line == "exit" || line == "quit" {
					return nil
				}
				if line == "" {
					continue
				}
				result, err := ctrl.Run(context.Background(), line, printStep)
				if err != nil && !errs.IsStepBudgetExhausted(err) {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				printResult(result)
			}
		},
	}
}
