// Package board holds the pipeline board core: stage partitioning, per-stage
// aggregates, and the drag-transition state machine with its optimistic
// update and rollback. Everything here is pure — the TUI owns the deal cache
// and the gateway call; this package decides what happens to them.
package board

import (
	"math"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

// BucketFor returns the deals currently in s. Buckets are derived from the
// full deal cache on every call; the board keeps no per-bucket storage, so a
// bucket can never diverge from the cache.
func BucketFor(deals []model.Deal, s stage.Stage) []model.Deal {
	out := make([]model.Deal, 0, len(deals))
	for _, d := range deals {
		if d.Stage == s {
			out = append(out, d)
		}
	}
	return out
}

// ActiveBuckets partitions the cache across the active (non-terminal) stages
// in column order.
func ActiveBuckets(deals []model.Deal) map[stage.Stage][]model.Deal {
	out := make(map[stage.Stage][]model.Deal, len(stage.Active()))
	for _, s := range stage.Active() {
		out[s] = BucketFor(deals, s)
	}
	return out
}

// StageValue is the arithmetic sum of deal values in s. A NaN value (a null
// that survived decoding) counts as 0 for aggregation; the stored value is
// untouched.
func StageValue(deals []model.Deal, s stage.Stage) float64 {
	var sum float64
	for _, d := range BucketFor(deals, s) {
		if math.IsNaN(d.Value) {
			continue
		}
		sum += d.Value
	}
	return sum
}

// ApplyStage returns a copy of deals with the given deal moved to `to` and
// its updatedAt bumped. This is the optimistic half of a drag commit; the
// caller keeps a pre-move snapshot (see Drag) in case the write fails.
func ApplyStage(deals []model.Deal, id int, to stage.Stage, now time.Time) []model.Deal {
	out := make([]model.Deal, len(deals))
	copy(out, deals)
	for i := range out {
		if out[i].ID == id {
			out[i].Stage = to
			out[i].UpdatedAt = now
			break
		}
	}
	return out
}

// RevertDeal restores the pre-drag snapshot of one deal (stage and updatedAt
// included) after a failed commit.
func RevertDeal(deals []model.Deal, snapshot model.Deal) []model.Deal {
	out := make([]model.Deal, len(deals))
	copy(out, deals)
	for i := range out {
		if out[i].ID == snapshot.ID {
			out[i] = snapshot
			break
		}
	}
	return out
}

// ReplaceDeal swaps in the authoritative record returned by the gateway
// (server timestamps win over the optimistic ones).
func ReplaceDeal(deals []model.Deal, d model.Deal) []model.Deal {
	out := make([]model.Deal, len(deals))
	copy(out, deals)
	for i := range out {
		if out[i].ID == d.ID {
			out[i] = d
			return out
		}
	}
	return append(out, d)
}
