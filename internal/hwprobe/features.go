package hwprobe

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"neuronos/pkg/types"
)

// features reads the runtime-detected CPU feature bitmask via
// golang.org/x/sys/cpu instead of hand-rolled CPUID leaf-1/leaf-7
// assembly.
func features() types.Feature {
	var f types.Feature
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasSSE3 {
			f |= types.FeatureSSE3
		}
		if cpu.X86.HasSSSE3 {
			f |= types.FeatureSSSE3
		}
		if cpu.X86.HasAVX {
			f |= types.FeatureAVX
		}
		if cpu.X86.HasAVX2 {
			f |= types.FeatureAVX2
		}
		if cpu.X86.HasAVX512F {
			f |= types.FeatureAVX512F
		}
		if cpu.X86.HasAVXVNNI {
			f |= types.FeatureAVXVNNI
		}
	case "arm64":
		// NEON is mandatory on all 64-bit ARM targets.
		f |= types.FeatureNEON
	default:
		// riscv64/wasm/unknown: zero feature mask, scalar-only.
	}
	return f
}
