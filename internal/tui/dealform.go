package tui

import (
	"fmt"
	"strconv"
	"strings"

	"flowcrm/internal/gateway"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field order inside the deal form.
const (
	formFieldTitle = iota
	formFieldValue
	formFieldClose
	formFieldContact
	formFieldCompany
	formFieldNotes
	formFieldCount
)

var formLabels = [...]string{"Title", "Value (USD)", "Close date", "Contact id", "Company id", "Notes"}

type dealFormState struct {
	id    int // 0 = create
	stage stage.Stage

	inputs [formFieldNotes]textinput.Model
	notes  textarea.Model
	focus  int

	// errText is the inline validation message; nothing leaves the form
	// while it is set by a failed submit.
	errText string
}

func newDealForm(d *model.Deal, columnStage stage.Stage) *dealFormState {
	f := &dealFormState{stage: columnStage}

	placeholders := [...]string{"Acme renewal", "3500", "2026-10-01", "", ""}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		in.Width = 40
		f.inputs[i] = in
	}
	f.inputs[formFieldTitle].CharLimit = 200

	f.notes = textarea.New()
	f.notes.Placeholder = "Notes (markdown)"
	f.notes.SetWidth(44)
	f.notes.SetHeight(4)
	f.notes.CharLimit = 4000

	if d != nil {
		f.id = d.ID
		f.stage = d.Stage
		f.inputs[formFieldTitle].SetValue(d.Title)
		f.inputs[formFieldValue].SetValue(strconv.FormatFloat(d.Value, 'f', -1, 64))
		f.inputs[formFieldClose].SetValue(d.ExpectedCloseDate)
		if d.ContactID != nil {
			f.inputs[formFieldContact].SetValue(strconv.Itoa(*d.ContactID))
		}
		if d.CompanyID != nil {
			f.inputs[formFieldCompany].SetValue(strconv.Itoa(*d.CompanyID))
		}
		f.notes.SetValue(d.Notes)
	}

	f.inputs[formFieldTitle].Focus()
	return f
}

func (f *dealFormState) title() string {
	if f.id == 0 {
		return fmt.Sprintf("New deal · %s", f.stage)
	}
	return fmt.Sprintf("Edit deal #%d", f.id)
}

func (f *dealFormState) setFocus(idx int) {
	if idx < 0 {
		idx = formFieldCount - 1
	}
	if idx >= formFieldCount {
		idx = 0
	}
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.notes.Blur()
	f.focus = idx
	if idx == formFieldNotes {
		f.notes.Focus()
		return
	}
	f.inputs[idx].Focus()
}

// Update routes keystrokes to the focused field.
func (f *dealFormState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == formFieldNotes {
		f.notes, cmd = f.notes.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func optionalID(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, model.ValidationError{Field: field, Reason: "must be a positive id"}
	}
	return &n, nil
}

// build validates the form and produces both the full record (create) and
// the patch (update). The caller picks one based on f.id.
func (f *dealFormState) build() (model.Deal, gateway.DealPatch, error) {
	var d model.Deal
	var p gateway.DealPatch

	d.Title = strings.TrimSpace(f.inputs[formFieldTitle].Value())
	rawValue := strings.TrimSpace(f.inputs[formFieldValue].Value())
	if rawValue != "" {
		v, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return d, p, model.ValidationError{Field: "value", Reason: "must be a number"}
		}
		d.Value = v
	}
	d.Stage = f.stage
	d.ExpectedCloseDate = strings.TrimSpace(f.inputs[formFieldClose].Value())
	d.Notes = f.notes.Value()

	var err error
	if d.ContactID, err = optionalID(f.inputs[formFieldContact].Value(), "contactId"); err != nil {
		return d, p, err
	}
	if d.CompanyID, err = optionalID(f.inputs[formFieldCompany].Value(), "companyId"); err != nil {
		return d, p, err
	}

	if err := d.Validate(); err != nil {
		return d, p, err
	}

	p = gateway.DealPatch{
		Title:             &d.Title,
		Value:             &d.Value,
		ExpectedCloseDate: &d.ExpectedCloseDate,
		ContactID:         d.ContactID,
		CompanyID:         d.CompanyID,
		Notes:             &d.Notes,
	}
	return d, p, nil
}

func (f *dealFormState) View(termW int) string {
	bodyW := modalBodyWidth(termW)

	labelStyle := styleMuted()
	focusedLabel := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	var b strings.Builder
	for i := range f.inputs {
		label := formLabels[i]
		ls := labelStyle
		if f.focus == i {
			ls = focusedLabel
		}
		b.WriteString(ls.Render(label))
		b.WriteString("\n")
		b.WriteString(renderInputLine(bodyW, f.inputs[i].View()))
		b.WriteString("\n")
	}

	ls := labelStyle
	if f.focus == formFieldNotes {
		ls = focusedLabel
	}
	b.WriteString(ls.Render(formLabels[formFieldNotes]))
	b.WriteString("\n")
	b.WriteString(f.notes.View())
	b.WriteString("\n")

	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorErrorFg).Width(bodyW).Render(f.errText))
	}

	b.WriteString("\n")
	b.WriteString(styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   esc: cancel"))

	return renderModalBox(termW, f.title(), b.String())
}
