package model

import (
	"fmt"
	"strings"
	"time"

	"flowcrm/internal/stage"
)

// ValidationError reports a bad or missing field, caught before any gateway
// round-trip.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errRequired(field string) error {
	return ValidationError{Field: field, Reason: "required"}
}

func (d Deal) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errRequired("title")
	}
	if d.Value <= 0 {
		return ValidationError{Field: "value", Reason: "must be greater than 0"}
	}
	if !stage.Valid(d.Stage) {
		return ValidationError{Field: "stage", Reason: fmt.Sprintf("unknown stage %q", d.Stage)}
	}
	if strings.TrimSpace(d.ExpectedCloseDate) == "" {
		return errRequired("expectedCloseDate")
	}
	if _, err := time.Parse("2006-01-02", d.ExpectedCloseDate); err != nil {
		return ValidationError{Field: "expectedCloseDate", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errRequired("name")
	}
	return nil
}

func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errRequired("name")
	}
	return nil
}

func (a Activity) Validate() error {
	if !ValidActivityType(a.Type) {
		return ValidationError{Field: "type", Reason: fmt.Sprintf("unknown activity type %q", a.Type)}
	}
	if strings.TrimSpace(a.Description) == "" {
		return errRequired("description")
	}
	if a.Date.IsZero() {
		return errRequired("date")
	}
	return nil
}
