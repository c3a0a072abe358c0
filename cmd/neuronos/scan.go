package main

import (
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"neuronos/internal/hwprobe"
	"neuronos/internal/registry"
	"neuronos/pkg/types"
)

func newScanCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use: "scan [dir]",
		Short: "Scan a directory for GGUF models and rank them for this hardware",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			dir := cfg.ModelsDir
			if len(args) == 1 {
				dir = args[0]
			}

			hw := hwprobe.Detect()
			fmt.Fprintf(os.Stderr, "Scanning: %s\n", dir)
			fmt.Fprintf(os.Stderr, "RAM budget: %d MB\n\n", hw.ModelBudgetMB())

			if watch {
				return scanWatch(dir, hw)
			}

			entries, err := registry.Scan(dir, hw)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(os.Stderr, "No GGUF models found in %s\n", dir)
				return fmt.Errorf("no models found")
			}
			printScanTable(entries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching the directory and reprint the table on change")
	return cmd
}

func printScanTable(entries []types.ModelEntry) {
	fmt.Printf("%-4s %-40s %8s %8s %10s %7s %s\n", "Rank", "Name", "Size MB", "RAM MB", "Params", "Score", "Fits?")
	for i, m := range entries {
		fits := "NO"
		if m.FitsInRAM {
			fits = "YES"
		}
		fmt.Printf("%-4d %-40.40s %8.0f %8.0f %9.1fB %7.1f %s\n",
			i+1, m.Name, m.FileSizeMB, m.EstRAMMB, m.EstParamsB, m.Score, fits)
	}
	if best, ok := registry.SelectBest(entries); ok {
		fmt.Printf("\n★ Best model: %s (score=%.1f)\n Path: %s\n", best.Name, best.Score, best.Path)
	}
}

// scanWatch uses registry.Watcher (fsnotify-backed) to reprint the scan
// table every time the models directory changes, until interrupted.
func scanWatch(dir string, hw types.HardwareInfo) error {
	w, err := registry.NewWatcher(dir, hw)
	if err != nil {
		return err
	}
	defer w.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	last := w.Entries()
	printScanTable(last)
	fmt.Fprintln(os.Stderr, "\nWatching for changes (Ctrl+C to stop)...")

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			entries := w.Entries()
			if !reflect.DeepEqual(entries, last) {
				last = entries
				fmt.Println()
				printScanTable(entries)
			}
		}
	}
}
