package memstore

import (
	"context"

	"neuronos/pkg/types"
)

// RecallGCCap is the default entry count above which RecallGC truncates
// the oldest Recall entries (the "total size exceeds a cap").
const RecallGCCap = 2000

// RecallGCBatch is how many oldest entries RecallGC removes per run once
// the cap is exceeded.
const RecallGCBatch = 200

// RecallGC truncates the oldest RecallGCBatch entries once the tier
// exceeds cap, inserting a single system-role placeholder summary in
// their place so the tier's chronology stays legible. It returns
// whether truncation ran.
func (s *Store) RecallGC(ctx context.Context, cap int, summary string) (bool, error) {
	if cap <= 0 {
		cap = RecallGCCap
	}
	n, err := s.RecallCount(ctx)
	if err != nil {
		return false, err
	}
	if n <= cap {
		return false, nil
	}

	batch := RecallGCBatch
	if batch > n {
		batch = n
	}
	if err := s.RecallTruncateOldest(ctx, batch); err != nil {
		return false, err
	}
	if summary != "" {
		if _, err := s.RecallAppend(ctx, types.RoleSystem, summary, "gc_summary"); err != nil {
			return false, err
		}
	}
	return true, nil
}
