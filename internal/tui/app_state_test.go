package tui

import (
	"testing"

	"flowcrm/internal/gateway/gatewaytest"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"
	"flowcrm/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUIStateRestoresViewAndBoardSelection(t *testing.T) {
	dir := t.TempDir()
	f := gatewaytest.New()
	f.SeedDeal(model.Deal{Title: "First", Value: 100, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-01"})
	target := f.SeedDeal(model.Deal{Title: "Target", Value: 200, Stage: stage.ProposalSent, ExpectedCloseDate: "2026-10-02"})

	m := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: dir}})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mm.(appModel)
	cmd := m.Init()
	mm, _ = m.Update(cmd())
	m = mm.(appModel)

	// Focus the Proposal Sent card and quit.
	m, _ = press(t, m, "l")
	m, _ = press(t, m, "l")
	m.saveUIState()

	// Relaunch against the same state dir.
	m2 := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: dir}})
	mm, _ = m2.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m2 = mm.(appModel)
	cmd = m2.Init()
	mm, _ = m2.Update(cmd())
	m2 = mm.(appModel)

	if m2.view != viewBoard {
		t.Fatalf("expected board view restored, got %s", m2.view)
	}
	d, ok := m2.selectedDeal()
	if !ok || d.ID != target.ID {
		t.Fatalf("expected Target re-selected, got %+v ok=%v", d, ok)
	}
}

func TestUIStateRestoresLastScreen(t *testing.T) {
	dir := t.TempDir()
	f := gatewaytest.New()

	m := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: dir}})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mm.(appModel)
	cmd := m.Init()
	mm, _ = m.Update(cmd())
	m = mm.(appModel)

	m, _ = press(t, m, "5")

	m2 := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: dir}})
	if m2.view != viewDashboard {
		t.Fatalf("expected dashboard restored, got %s", m2.view)
	}
}

func TestCorruptUIStateFallsBackToBoard(t *testing.T) {
	f := gatewaytest.New()
	m := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: t.TempDir()}})
	if m.view != viewBoard {
		t.Fatalf("expected board default, got %s", m.view)
	}
}
