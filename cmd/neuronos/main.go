// Command neuronos is the NeuronOS CLI: hardware detection, model
// scanning/auto-selection, one-shot generation, and the ReAct agent
// loop, all layered over the engine/toolsreg/memstore/ctxbudget
// packages through internal/agent.Controller.
//
// The command tree (hwinfo, scan, auto generate|agent, model
// info|generate|agent|chat <path>, version) is reworked from getopt-style argv
// scanning into github.com/spf13/cobra subcommands, favoring a real
// flag-parsing dependency over hand-rolled parsing.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"neuronos/internal/obslog"
	"neuronos/pkg/errs"
)

// globalFlags is the collected option set, parsed once by cobra's
// persistent flags instead of a hand-rolled argv scan.
type globalFlags struct {
	threads    int
	maxTokens  int
	maxSteps   int
	temp       float32
	grammar    string
	modelsDir  string
	configPath string
	debugAddr  string
	debugCors  bool
	verbose    bool
}

var flags globalFlags

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(errs.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "neuronos",
		Short:         "NeuronOS — a local agent runtime over ternary GGUF models",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			obslog.SetVerbose(flags.verbose)
			return nil
		},
	}

	root.PersistentFlags().IntVarP(&flags.threads, "threads", "t", 0, "number of inference threads (default: auto)")
	root.PersistentFlags().IntVarP(&flags.maxTokens, "max-tokens", "n", 256, "max tokens to generate")
	root.PersistentFlags().IntVarP(&flags.maxSteps, "steps", "s", 10, "max agent steps")
	root.PersistentFlags().Float32Var(&flags.temp, "temp", 0.7, "sampling temperature")
	root.PersistentFlags().StringVar(&flags.grammar, "grammar", "", "GBNF grammar file")
	root.PersistentFlags().StringVar(&flags.modelsDir, "models", "", "models search directory (default: config or ~/.neuronos/models)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a config file (yaml/json/toml)")
	root.PersistentFlags().StringVar(&flags.debugAddr, "debug-addr", "", "address to serve /healthz,/status,/metrics on (empty disables)")
	root.PersistentFlags().BoolVar(&flags.debugCors, "debug-cors", false, "allow cross-origin requests to the debug server")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "show debug info")

	root.AddCommand(
		newHWInfoCmd(),
		newScanCmd(),
		newAutoCmd(),
		newModelCmd(),
		newVersionCmd(),
	)
	return root
}
