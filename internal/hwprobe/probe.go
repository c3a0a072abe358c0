// Package hwprobe detects the hardware NeuronOS is running on.
// Detect is a pure function — nothing here caches state globally — so
// that cmd/neuronos's hwinfo command and internal/registry's scoring can
// both call it without coordinating a shared probe lifecycle.
package hwprobe

import (
	"runtime"

	"neuronos/pkg/types"
)

// Detect resolves a HardwareInfo field by field: every field has a
// documented fallback, so Detect never errors.
func Detect() types.HardwareInfo {
	logical := logicalCores()
	total, avail := memoryMB()

	return types.HardwareInfo{
		CPUName:       cpuName(),
		Arch:          archTag(),
		LogicalCores:  logical,
		PhysicalCores: physicalCores(logical),
		RAMTotalMB:    total,
		RAMAvailMB:    avail,
		GPUName:       "",
		GPUVRAMMB:     0,
		Features:      features(),
	}
}

func archTag() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "riscv64":
		return "riscv64"
	case "arm":
		return "arm32"
	case "wasm":
		return "wasm"
	default:
		return "unknown"
	}
}

func logicalCores() int {
	n := runtime.NumCPU()
	if n <= 0 {
		return 4
	}
	return n
}

// physicalCores applies a placeholder heuristic: above 8 logical cores,
// assume SMT/hyperthreading and estimate floor(logical * 0.6); otherwise
// assume no SMT. DESIGN.md records this as a known-coarse placeholder,
// not a bug to fix here.
func physicalCores(logical int) int {
	if logical > 8 {
		return int(float64(logical) * 0.6)
	}
	return logical
}
