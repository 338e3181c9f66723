package board

import (
	"fmt"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

// The board permits exactly one drag gesture at a time:
//
//	Idle → Dragging            Begin (pick up a card; no side effects)
//	Dragging → Idle            Cancel, or Drop on the source column (no-op)
//	Dragging → Committing      Drop on a different stage: the caller applies
//	                           the optimistic cache mutation and issues the
//	                           gateway update
//	Committing → Idle          Resolve(err); on failure the pre-drag snapshot
//	                           is rolled back into the cache
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragCommitting
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragCommitting:
		return "committing"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// Transition is a committed stage reassignment handed to the gateway.
type Transition struct {
	DealID int
	From   stage.Stage
	To     stage.Stage
}

// Notification renders the toast text for a successful commit. Terminal
// transitions get a distinct message from ordinary inter-stage moves.
func (t Transition) Notification() string {
	if stage.IsTerminal(t.To) {
		return fmt.Sprintf("Deal %s! Moved to %s status.", lower(t.To), t.To)
	}
	return fmt.Sprintf("Deal moved to %s", t.To)
}

func lower(s stage.Stage) string {
	switch s {
	case stage.Won:
		return "won"
	case stage.Lost:
		return "lost"
	default:
		return string(s)
	}
}

type Drag struct {
	state DragState

	// snapshot is the deal as it was when picked up, kept for rollback.
	snapshot model.Deal
}

func (d *Drag) State() DragState { return d.state }

// DealID reports the deal in flight (0 when idle).
func (d *Drag) DealID() int {
	if d.state == DragIdle {
		return 0
	}
	return d.snapshot.ID
}

// Snapshot returns the pre-drag record of the deal in flight.
func (d *Drag) Snapshot() model.Deal { return d.snapshot }

// Begin picks up a card. Only one gesture may be in flight; Begin while a
// previous drag is still dragging or committing is refused.
func (d *Drag) Begin(deal model.Deal) error {
	if d.state != DragIdle {
		return fmt.Errorf("drag already in progress (%s) for deal %d", d.state, d.snapshot.ID)
	}
	d.state = DragDragging
	d.snapshot = deal
	return nil
}

// Cancel returns to idle without any mutation or network call.
func (d *Drag) Cancel() {
	d.state = DragIdle
	d.snapshot = model.Deal{}
}

// Drop ends the gesture over target. Dropping on the source column, on an
// invalid stage, or while not dragging cancels: no mutation, no gateway call.
// Otherwise the drag moves to Committing and the returned Transition tells
// the caller what to apply optimistically and send to the gateway.
func (d *Drag) Drop(target stage.Stage) (Transition, bool) {
	if d.state != DragDragging {
		return Transition{}, false
	}
	if !stage.Valid(target) || target == d.snapshot.Stage {
		d.Cancel()
		return Transition{}, false
	}
	d.state = DragCommitting
	return Transition{DealID: d.snapshot.ID, From: d.snapshot.Stage, To: target}, true
}

// Resolve completes the commit. On failure it returns the snapshot to roll
// back into the cache (the pre-drag stage must never be silently lost).
func (d *Drag) Resolve(err error) (rollback model.Deal, needed bool) {
	if d.state != DragCommitting {
		// A stale completion (e.g. the screen reloaded mid-flight) is
		// discarded rather than corrupting a newer gesture.
		return model.Deal{}, false
	}
	snap := d.snapshot
	d.Cancel()
	if err != nil {
		return snap, true
	}
	return model.Deal{}, false
}
