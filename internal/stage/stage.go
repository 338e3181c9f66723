package stage

import (
	"fmt"
	"strings"
)

// Stage is a pipeline phase of a deal. The string value is the wire value:
// the backend stores and returns these exact strings, and the board uses them
// as drop-target identifiers.
type Stage string

const (
	LeadIn       Stage = "Lead In"
	ContactMade  Stage = "Contact Made"
	ProposalSent Stage = "Proposal Sent"
	Negotiation  Stage = "Negotiation"
	Won          Stage = "Won"
	Lost         Stage = "Lost"
)

// All returns every stage in pipeline order.
func All() []Stage {
	return []Stage{LeadIn, ContactMade, ProposalSent, Negotiation, Won, Lost}
}

// Active returns the stages shown as board columns. Won and Lost are terminal
// and render as drop zones instead of columns.
func Active() []Stage {
	return []Stage{LeadIn, ContactMade, ProposalSent, Negotiation}
}

// IsTerminal reports whether s is an end state (Won or Lost). A deal in a
// terminal stage stays a valid record but leaves the active pipeline view.
func IsTerminal(s Stage) bool {
	return s == Won || s == Lost
}

func Valid(s Stage) bool {
	for _, st := range All() {
		if st == s {
			return true
		}
	}
	return false
}

// Parse resolves user input to a Stage. Matching is case-insensitive and
// accepts dashed/collapsed forms ("lead-in", "proposalsent") since stage names
// are awkward to quote in a shell.
func Parse(s string) (Stage, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	collapsed := strings.ReplaceAll(key, " ", "")
	for _, st := range All() {
		lower := strings.ToLower(string(st))
		if key == lower || collapsed == strings.ReplaceAll(lower, " ", "") {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid stage: %q", s)
}
