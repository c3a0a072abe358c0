// Package registry scans a directory for GGUF models, scores each
// against detected hardware, and selects the best fit. It walks
// recursively and caps at 128 entries.
package registry

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"neuronos/internal/common/fsutil"
	"neuronos/internal/gguf"
	"neuronos/internal/obslog"
	"neuronos/pkg/types"
)

// MaxScanEntries caps the number of models a single scan will return.
const MaxScanEntries = 128

// Scan walks dir depth-first, not following symlinks, collecting up to
// MaxScanEntries *.gguf files as scored ModelEntry values. It
// stops silently at the cap and logs a single warning.
func Scan(dir string, hw types.HardwareInfo) ([]types.ModelEntry, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("registry: abs path: %w", err)
	}

	var entries []types.ModelEntry
	capped := false

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if len(entries) >= MaxScanEntries {
			capped = true
			if d.IsDir() && path != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".gguf") {
			return nil
		}

		entry, err := buildEntry(path, hw)
		if err != nil {
			lg := obslog.Logger()
			lg.Warn().Str("path", path).Err(err).Msg("registry: skip unreadable model")
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: walk: %w", err)
	}

	if capped {
		lg := obslog.Logger()
		lg.Warn().Int("cap", MaxScanEntries).Str("dir", abs).Msg("registry: scan hit entry cap, stopping")
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}

func buildEntry(path string, hw types.HardwareInfo) (types.ModelEntry, error) {
	info, err := gguf.Read(path)
	if err != nil {
		return types.ModelEntry{}, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	entry := types.ModelEntry{
		Path: path,
		Name: name,
		FileSizeMB: info.FileSizeMB,
		QuantTag: info.QuantType.String(),
		Architecture: info.Architecture,
	}
	entry.EstRAMMB = EstimateRAMMB(entry.FileSizeMB)
	entry.EstParamsB = EstimateParamsB(entry.FileSizeMB)
	entry.FitsInRAM = entry.EstRAMMB <= float64(hw.ModelBudgetMB())
	entry.Score = Score(entry, hw)
	return entry, nil
}

// EstimateRAMMB implements the estimator: file_size_mb*1.3 + 100.
func EstimateRAMMB(fileSizeMB float64) float64 {
	return fileSizeMB*1.3 + 100
}

// EstimateParamsB implements the ternary parameter estimate, assuming
// ~0.35 bytes/param. A non-ternary GGUF mis-scores under this constant;
// internal/gguf surfaces the quant tag so a future per-encoding constant
// can be layered on without touching the scoring contract.
func EstimateParamsB(fileSizeMB float64) float64 {
	const bytesPerParam = 0.35
	totalBytes := fileSizeMB * 1024 * 1024
	params := totalBytes / bytesPerParam
	return params / 1e9
}
