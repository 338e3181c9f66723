package stage

import "testing"

func TestParseAcceptsShellFriendlyForms(t *testing.T) {
	cases := map[string]Stage{
		"Lead In":       LeadIn,
		"lead in":       LeadIn,
		"lead-in":       LeadIn,
		"leadin":        LeadIn,
		"CONTACT_MADE":  ContactMade,
		"proposal sent": ProposalSent,
		"proposalsent":  ProposalSent,
		"negotiation":   Negotiation,
		"won":           Won,
		"Lost":          Lost,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := Parse("Qualified"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty stage")
	}
}

func TestWireStringsAreStable(t *testing.T) {
	want := []string{"Lead In", "Contact Made", "Proposal Sent", "Negotiation", "Won", "Lost"}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("All() has %d stages, want %d", len(all), len(want))
	}
	for i, s := range all {
		if string(s) != want[i] {
			t.Fatalf("All()[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestTerminalClassification(t *testing.T) {
	for _, s := range Active() {
		if IsTerminal(s) {
			t.Fatalf("%q should not be terminal", s)
		}
	}
	if !IsTerminal(Won) || !IsTerminal(Lost) {
		t.Fatal("Won and Lost must be terminal")
	}
}
