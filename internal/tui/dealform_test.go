package tui

import (
	"strings"
	"testing"

	"flowcrm/internal/gateway/gatewaytest"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

func TestDealFormValidatesBeforeSubmit(t *testing.T) {
	f := newDealForm(nil, stage.LeadIn)

	f.inputs[formFieldTitle].SetValue("Acme renewal")
	// Missing value and close date.
	if _, _, err := f.build(); err == nil {
		t.Fatal("expected validation error for missing fields")
	}

	f.inputs[formFieldValue].SetValue("not-a-number")
	if _, _, err := f.build(); err == nil || !strings.Contains(err.Error(), "value") {
		t.Fatalf("expected value validation error, got %v", err)
	}

	f.inputs[formFieldValue].SetValue("3500")
	f.inputs[formFieldClose].SetValue("10/01/2026")
	if _, _, err := f.build(); err == nil || !strings.Contains(err.Error(), "expectedCloseDate") {
		t.Fatalf("expected close date validation error, got %v", err)
	}

	f.inputs[formFieldClose].SetValue("2026-10-01")
	d, _, err := f.build()
	if err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	if d.Title != "Acme renewal" || d.Value != 3500 || d.Stage != stage.LeadIn {
		t.Fatalf("unexpected built deal %+v", d)
	}
	if d.ContactID != nil || d.CompanyID != nil {
		t.Fatal("expected optional ids to stay nil")
	}
}

func TestDealFormPrefillsForEdit(t *testing.T) {
	contactID := 7
	d := model.Deal{
		ID: 42, Title: "Initech pilot", Value: 1200.50, Stage: stage.Negotiation,
		ExpectedCloseDate: "2026-11-15", ContactID: &contactID, Notes: "warm intro",
	}
	f := newDealForm(&d, stage.LeadIn)

	if f.id != 42 {
		t.Fatalf("expected id 42, got %d", f.id)
	}
	// The deal's own stage wins over the column default.
	if f.stage != stage.Negotiation {
		t.Fatalf("expected stage from deal, got %q", f.stage)
	}
	if got := f.inputs[formFieldTitle].Value(); got != "Initech pilot" {
		t.Fatalf("expected title prefilled, got %q", got)
	}
	if got := f.inputs[formFieldValue].Value(); got != "1200.5" {
		t.Fatalf("expected value prefilled, got %q", got)
	}
	if got := f.inputs[formFieldContact].Value(); got != "7" {
		t.Fatalf("expected contact id prefilled, got %q", got)
	}
	if got := f.notes.Value(); got != "warm intro" {
		t.Fatalf("expected notes prefilled, got %q", got)
	}
}

func TestNewDealFromColumnCreatesAndAppends(t *testing.T) {
	f := gatewaytest.New()
	m := newTestApp(t, f)

	// Move to an empty column and open the form from it.
	m, _ = press(t, m, "l")
	m, _ = press(t, m, "n")
	if m.modal != modalDealForm || m.form == nil {
		t.Fatal("expected deal form modal")
	}
	if m.form.stage != stage.ContactMade {
		t.Fatalf("expected form seeded with column stage, got %q", m.form.stage)
	}

	m.form.inputs[formFieldTitle].SetValue("Fresh lead")
	m.form.inputs[formFieldValue].SetValue("500")
	m.form.inputs[formFieldClose].SetValue("2026-09-30")

	m, cmd := press(t, m, "ctrl+s")
	if m.modal != modalNone {
		t.Fatal("expected modal closed after submit")
	}
	if cmd == nil {
		t.Fatal("expected save command")
	}
	mm, _ := m.Update(cmd())
	m = mm.(appModel)

	if got := f.CallCount("deals.create"); got != 1 {
		t.Fatalf("expected 1 create call, got %d", got)
	}
	d, ok := m.selectedDeal()
	if !ok || d.Title != "Fresh lead" || d.Stage != stage.ContactMade {
		t.Fatalf("expected new deal selected in its column, got %+v ok=%v", d, ok)
	}
	if m.toast != "Deal created" {
		t.Fatalf("unexpected toast %q", m.toast)
	}
}

func TestInvalidFormStaysOpenWithInlineError(t *testing.T) {
	f := gatewaytest.New()
	m := newTestApp(t, f)

	m, _ = press(t, m, "n")
	m, cmd := press(t, m, "ctrl+s")
	if cmd != nil {
		t.Fatal("expected no gateway call for invalid form")
	}
	if m.modal != modalDealForm {
		t.Fatal("expected form to stay open")
	}
	if m.form.errText == "" {
		t.Fatal("expected inline validation message")
	}
	if got := f.CallCount("deals.create"); got != 0 {
		t.Fatalf("expected no create call, got %d", got)
	}
}

func TestDeleteDealWithConfirm(t *testing.T) {
	f := gatewaytest.New()
	seeded := seedOneDeal(f)

	m := newTestApp(t, f)

	m, _ = press(t, m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatal("expected confirm modal")
	}
	if !strings.Contains(m.View(), "Delete deal") {
		t.Fatal("expected confirm modal rendered")
	}

	// Default focus is Cancel; enter keeps the deal.
	m, _ = press(t, m, "enter")
	if got := f.CallCount("deals.delete"); got != 0 {
		t.Fatalf("expected cancel to skip delete, got %d calls", got)
	}

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	mm, _ := m.Update(cmd())
	m = mm.(appModel)

	if got := f.CallCount("deals.delete"); got != 1 {
		t.Fatalf("expected 1 delete call, got %d", got)
	}
	if _, ok := dealByID(m.deals, seeded.ID); ok {
		t.Fatal("expected deal removed from cache")
	}
}
