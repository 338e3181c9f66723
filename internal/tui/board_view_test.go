package tui

import (
	"strings"
	"testing"

	"flowcrm/internal/gateway/gatewaytest"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

func TestBoardRendersColumnsWithCountsAndValues(t *testing.T) {
	f := gatewaytest.New()
	f.SeedDeal(model.Deal{Title: "Acme renewal", Value: 3500, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-01"})
	f.SeedDeal(model.Deal{Title: "Initech pilot", Value: 1200, Stage: stage.Negotiation, ExpectedCloseDate: "2026-11-15"})

	m := newTestApp(t, f)

	out := m.View()
	if !strings.Contains(out, "Lead In (1)") {
		t.Fatalf("expected Lead In column header with count, got:\n%s", out)
	}
	if !strings.Contains(out, "Contact Made (0)") {
		t.Fatalf("expected empty Contact Made column header, got:\n%s", out)
	}
	if !strings.Contains(out, "$3,500") {
		t.Fatalf("expected formatted column value, got:\n%s", out)
	}
	if !strings.Contains(out, "Acme renewal") || !strings.Contains(out, "Initech pilot") {
		t.Fatalf("expected deal titles to render, got:\n%s", out)
	}
	if !strings.Contains(out, "(empty)") {
		t.Fatalf("expected empty column placeholder, got:\n%s", out)
	}
	// Won and Lost are a drop bar, not columns.
	if !strings.Contains(out, "Won (0)") || !strings.Contains(out, "Lost (0)") {
		t.Fatalf("expected terminal drop bar, got:\n%s", out)
	}
}

func TestBoardNavigationMovesSelection(t *testing.T) {
	f := gatewaytest.New()
	f.SeedDeal(model.Deal{Title: "First", Value: 100, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-01"})
	f.SeedDeal(model.Deal{Title: "Second", Value: 200, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-02"})
	f.SeedDeal(model.Deal{Title: "Elsewhere", Value: 300, Stage: stage.Negotiation, ExpectedCloseDate: "2026-10-03"})

	m := newTestApp(t, f)

	d, ok := m.selectedDeal()
	if !ok || d.Title != "First" {
		t.Fatalf("expected First selected initially, got %+v ok=%v", d, ok)
	}

	m, _ = press(t, m, "j")
	if d, _ := m.selectedDeal(); d.Title != "Second" {
		t.Fatalf("expected Second after j, got %q", d.Title)
	}

	m, _ = press(t, m, "l")
	m, _ = press(t, m, "l")
	m, _ = press(t, m, "l")
	if d, _ := m.selectedDeal(); d.Title != "Elsewhere" {
		t.Fatalf("expected Elsewhere in the last column, got %q", d.Title)
	}

	// Clamp: moving past the last column stays on it.
	m, _ = press(t, m, "l")
	if d, _ := m.selectedDeal(); d.Title != "Elsewhere" {
		t.Fatalf("expected selection clamped to last column, got %q", d.Title)
	}
}

func TestLoadFailureShowsErrorScreenAndRetries(t *testing.T) {
	f := gatewaytest.New()
	f.SeedDeal(model.Deal{Title: "Recovered", Value: 100, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-01"})
	f.FailNext("deals.list", errBoom)

	m := newTestApp(t, f)
	if m.loadErr == nil {
		t.Fatal("expected load error")
	}
	out := m.View()
	if !strings.Contains(out, "Could not reach the backend") {
		t.Fatalf("expected error screen, got:\n%s", out)
	}
	// A partial load must never render: no deals were kept.
	if len(m.deals) != 0 {
		t.Fatalf("expected empty cache after failed load, got %d deals", len(m.deals))
	}

	m, cmd := press(t, m, "r")
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	mm, _ := m.Update(cmd())
	m = mm.(appModel)
	if m.loadErr != nil {
		t.Fatalf("expected retry to succeed, got %v", m.loadErr)
	}
	if !strings.Contains(m.View(), "Recovered") {
		t.Fatal("expected board to render after retry")
	}
}

func TestViewSwitchingRendersEachScreen(t *testing.T) {
	f := gatewaytest.New()
	cmp := f.SeedCompany(model.Company{Name: "Globex", Industry: "Energy"})
	f.SeedContact(model.Contact{Name: "Dana Fox", JobTitle: "CTO", CompanyID: &cmp.ID})
	f.SeedDeal(model.Deal{Title: "Globex expansion", Value: 9000, Stage: stage.ContactMade, ExpectedCloseDate: "2026-12-01"})

	m := newTestApp(t, f)

	m, _ = press(t, m, "2")
	out := m.View()
	if !strings.Contains(out, "Dana Fox") || !strings.Contains(out, "Globex") {
		t.Fatalf("expected contacts screen with company resolution, got:\n%s", out)
	}

	m, _ = press(t, m, "5")
	out = m.View()
	if !strings.Contains(out, "Pipeline value") || !strings.Contains(out, "$9,000") {
		t.Fatalf("expected dashboard metrics, got:\n%s", out)
	}

	m, _ = press(t, m, "1")
	if !strings.Contains(m.View(), "Globex expansion") {
		t.Fatal("expected board after switching back")
	}
}
