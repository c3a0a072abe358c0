package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"neuronos/internal/agent"
	"neuronos/internal/diag"
	"neuronos/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	obsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("108")).Italic(true)
	okStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("41"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// printHWInfo renders a HardwareInfo as a styled report instead of a
// printf-aligned table.
func printHWInfo(hw types.HardwareInfo) {
	fmt.Println(titleStyle.Render("NeuronOS — detected hardware"))
	row := func(label, val string) {
		fmt.Printf(" %s %s\n", labelStyle.Render(label+":"), val)
	}
	row("CPU", hw.CPUName)
	row("Arch", hw.Arch)
	row("Cores", fmt.Sprintf("%d physical / %d logical", hw.PhysicalCores, hw.LogicalCores))
	row("RAM", fmt.Sprintf("%d MB total / %d MB available", hw.RAMTotalMB, hw.RAMAvailMB))
	row("Model budget", fmt.Sprintf("%d MB", hw.ModelBudgetMB()))
	if hw.GPUName != "" {
		row("GPU", fmt.Sprintf("%s (%d MB VRAM)", hw.GPUName, hw.GPUVRAMMB))
	}
	row("Features", featureList(hw))
}

func featureList(hw types.HardwareInfo) string {
	var names []string
	for name, f := range map[string]types.Feature{
		"sse3": types.FeatureSSE3, "ssse3": types.FeatureSSSE3, "avx": types.FeatureAVX,
		"avx2": types.FeatureAVX2, "avx_vnni": types.FeatureAVXVNNI, "avx512f": types.FeatureAVX512F,
		"neon": types.FeatureNEON,
	} {
		if hw.HasFeature(f) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none detected"
	}
	return strings.Join(names, ", ")
}

// printStep renders one agent.StepInfo to stderr, with the observation
// truncated to a 200-character preview.
func printStep(info agent.StepInfo) {
	diag.RecordAgentStep()
	fmt.Fprintf(os.Stderr, "\n%s\n", stepStyle.Render(fmt.Sprintf("── Step %d ──", info.Step+1)))
	if info.Thought != "" {
		fmt.Fprintf(os.Stderr, " %s %s\n", labelStyle.Render("Thought:"), info.Thought)
	}
	if info.ActionJSON != "" {
		fmt.Fprintf(os.Stderr, " %s %s\n", labelStyle.Render("Action:"), info.ActionJSON)
	}
	if info.Observation != "" {
		obs := info.Observation
		truncated := false
		if r := []rune(obs); len(r) > 200 {
			obs = string(r[:200])
			truncated = true
		}
		if truncated {
			obs += "..."
		}
		fmt.Fprintf(os.Stderr, " %s %s\n", labelStyle.Render("Observe:"), obsStyle.Render(obs))
	}
}

func printResult(result agent.Result) {
	if result.Status == "ok" {
		fmt.Printf("\n%s\n%s\n", okStyle.Render("══ Answer ══"), result.Answer)
		return
	}
	fmt.Println(failStyle.Render(fmt.Sprintf("\nAgent stopped (status=%s, steps=%d)", result.Status, result.StepsTaken)))
}
