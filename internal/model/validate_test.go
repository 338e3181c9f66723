package model

import (
	"errors"
	"testing"
	"time"

	"flowcrm/internal/stage"
)

func validDeal() Deal {
	return Deal{
		Title:             "Enterprise license",
		Value:             12000,
		Stage:             stage.LeadIn,
		ExpectedCloseDate: "2026-10-01",
	}
}

func TestDealValidate(t *testing.T) {
	if err := validDeal().Validate(); err != nil {
		t.Fatalf("valid deal rejected: %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*Deal)
		field string
	}{
		{"empty title", func(d *Deal) { d.Title = "  " }, "title"},
		{"zero value", func(d *Deal) { d.Value = 0 }, "value"},
		{"negative value", func(d *Deal) { d.Value = -5 }, "value"},
		{"bad stage", func(d *Deal) { d.Stage = "Qualified" }, "stage"},
		{"missing date", func(d *Deal) { d.ExpectedCloseDate = "" }, "expectedCloseDate"},
		{"bad date", func(d *Deal) { d.ExpectedCloseDate = "10/01/2026" }, "expectedCloseDate"},
	}
	for _, tc := range cases {
		d := validDeal()
		tc.mut(&d)
		err := d.Validate()
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, verr.Field, tc.field)
		}
	}
}

func TestActivityValidate(t *testing.T) {
	a := Activity{Type: ActivityCall, Description: "Intro call", Date: time.Now()}
	if err := a.Validate(); err != nil {
		t.Fatalf("valid activity rejected: %v", err)
	}
	a.Type = "Fax"
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for unknown activity type")
	}
}

func TestRefResolutionDegradesToPlaceholder(t *testing.T) {
	contacts := []Contact{{ID: 1, Name: "Ada"}}
	one, missing := 1, 99

	if got := ContactName(contacts, &one); got != "Ada" {
		t.Fatalf("ContactName = %q", got)
	}
	if got := ContactName(contacts, &missing); got != "(not found)" {
		t.Fatalf("dangling ref = %q, want placeholder", got)
	}
	if got := ContactName(contacts, nil); got != "" {
		t.Fatalf("nil ref = %q, want empty", got)
	}
}
