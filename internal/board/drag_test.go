package board

import (
	"errors"
	"testing"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

func TestDragBeginDropCommit(t *testing.T) {
	var d Drag
	deal := model.Deal{ID: 7, Stage: stage.LeadIn}

	if err := d.Begin(deal); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if d.State() != DragDragging {
		t.Fatalf("state = %s, want dragging", d.State())
	}

	tr, ok := d.Drop(stage.Won)
	if !ok {
		t.Fatal("Drop on a different stage must commit")
	}
	if tr != (Transition{DealID: 7, From: stage.LeadIn, To: stage.Won}) {
		t.Fatalf("transition = %+v", tr)
	}
	if d.State() != DragCommitting {
		t.Fatalf("state = %s, want committing", d.State())
	}

	if _, needed := d.Resolve(nil); needed {
		t.Fatal("successful commit must not request rollback")
	}
	if d.State() != DragIdle {
		t.Fatalf("state = %s, want idle", d.State())
	}
}

func TestDropOnSourceColumnIsNoOp(t *testing.T) {
	var d Drag
	if err := d.Begin(model.Deal{ID: 7, Stage: stage.LeadIn}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, ok := d.Drop(stage.LeadIn); ok {
		t.Fatal("dropping on the source column must cancel, not commit")
	}
	if d.State() != DragIdle {
		t.Fatalf("state = %s, want idle", d.State())
	}
}

func TestDropOnInvalidTargetCancels(t *testing.T) {
	var d Drag
	if err := d.Begin(model.Deal{ID: 7, Stage: stage.LeadIn}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, ok := d.Drop(stage.Stage("Limbo")); ok {
		t.Fatal("invalid target must cancel")
	}
	if d.State() != DragIdle {
		t.Fatalf("state = %s, want idle", d.State())
	}
}

func TestOnlyOneDragInFlight(t *testing.T) {
	var d Drag
	if err := d.Begin(model.Deal{ID: 1, Stage: stage.LeadIn}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.Begin(model.Deal{ID: 2, Stage: stage.LeadIn}); err == nil {
		t.Fatal("second Begin while dragging must be refused")
	}

	d.Drop(stage.Won)
	if err := d.Begin(model.Deal{ID: 2, Stage: stage.LeadIn}); err == nil {
		t.Fatal("Begin while committing must be refused")
	}
}

func TestFailedCommitRollsBack(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	snap := model.Deal{ID: 7, Stage: stage.LeadIn, UpdatedAt: now.Add(-time.Hour)}
	deals := []model.Deal{snap}

	var d Drag
	if err := d.Begin(snap); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tr, ok := d.Drop(stage.Negotiation)
	if !ok {
		t.Fatal("expected commit")
	}
	deals = ApplyStage(deals, tr.DealID, tr.To, now)

	rollback, needed := d.Resolve(errors.New("backend rejected"))
	if !needed {
		t.Fatal("failed commit must request rollback")
	}
	deals = RevertDeal(deals, rollback)

	if deals[0].Stage != stage.LeadIn {
		t.Fatalf("stage after rollback = %q, want pre-drag Lead In", deals[0].Stage)
	}
	if !deals[0].UpdatedAt.Equal(snap.UpdatedAt) {
		t.Fatal("rollback must restore the pre-drag updatedAt")
	}
}

func TestStaleResolveIsDiscarded(t *testing.T) {
	var d Drag
	if _, needed := d.Resolve(errors.New("late failure")); needed {
		t.Fatal("Resolve while idle must be a no-op")
	}
}

func TestCancelHasNoSideEffects(t *testing.T) {
	var d Drag
	if err := d.Begin(model.Deal{ID: 7, Stage: stage.LeadIn}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	d.Cancel()
	if d.State() != DragIdle || d.DealID() != 0 {
		t.Fatal("Cancel must fully reset the gesture")
	}
}

func TestNotificationDistinguishesTerminalMoves(t *testing.T) {
	won := Transition{DealID: 1, From: stage.Negotiation, To: stage.Won}
	if got := won.Notification(); got != "Deal won! Moved to Won status." {
		t.Fatalf("won notification = %q", got)
	}
	lost := Transition{DealID: 1, From: stage.LeadIn, To: stage.Lost}
	if got := lost.Notification(); got != "Deal lost! Moved to Lost status." {
		t.Fatalf("lost notification = %q", got)
	}
	move := Transition{DealID: 1, From: stage.LeadIn, To: stage.ContactMade}
	if got := move.Notification(); got != "Deal moved to Contact Made" {
		t.Fatalf("move notification = %q", got)
	}
}
