package registry

import (
	"strings"

	"neuronos/pkg/types"
)

// qualityTier implements the params-to-quality-bonus table.
func qualityTier(paramsB float64) float64 {
	switch {
	case paramsB < 1:
		return 10
	case paramsB < 2:
		return 30
	case paramsB < 4:
		return 60
	case paramsB < 8:
		return 80
	default:
		return 100
	}
}

var ternaryMarkers = []string{"i2_s", "1.58", "bitnet"}
var instructMarkers = []string{"instruct", "chat"}

func nameMatchesAny(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Score ranks a candidate model for a given hardware profile. A
// candidate that exceeds the hardware's model budget is
// hard-disqualified (-1) regardless of quality, so headroom/name
// bonuses can never promote an OOM candidate above the disqualified
// floor.
func Score(entry types.ModelEntry, hw types.HardwareInfo) float64 {
	budget := float64(hw.ModelBudgetMB())
	if entry.EstRAMMB > budget {
		return -1
	}

	score := 1000.0
	score += qualityTier(entry.EstParamsB)
	if budget > 0 {
		score += 50 * (budget - entry.EstRAMMB) / budget
	}
	if nameMatchesAny(entry.Name, ternaryMarkers) {
		score += 25
	}
	if nameMatchesAny(entry.Name, instructMarkers) {
		score += 15
	}
	return score
}

// SelectBest returns the first entry with a positive score and
// FitsInRAM, assuming entries are already sorted descending by score
// with ties broken by scan order (Scan's sort.SliceStable guarantees
// this).
func SelectBest(entries []types.ModelEntry) (types.ModelEntry, bool) {
	for _, e := range entries {
		if e.Score > 0 && e.FitsInRAM {
			return e, true
		}
	}
	return types.ModelEntry{}, false
}
