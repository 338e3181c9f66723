package tui

import (
	"flowcrm/internal/board"

	"github.com/charmbracelet/lipgloss"
)

var viewTabs = []struct {
	v     view
	label string
}{
	{viewBoard, "1 Board"},
	{viewContacts, "2 Contacts"},
	{viewCompanies, "3 Companies"},
	{viewActivities, "4 Activities"},
	{viewDashboard, "5 Dashboard"},
}

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	header := m.renderHeader()
	status := m.renderStatusLine()
	bodyH := maxInt(m.height-2, 0)

	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			styleMuted().Render("Loading pipeline…"))
	case m.loadErr != nil:
		msg := lipgloss.NewStyle().Foreground(colorErrorFg).Render("Could not reach the backend") +
			"\n\n" + truncateText(m.loadErr.Error(), m.width-8) +
			"\n\n" + styleMuted().Render("r: retry   q: quit")
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, msg)
	default:
		body = m.renderBody(m.width, bodyH)
	}

	if m.modal != modalNone {
		body = m.overlayModal(body, bodyH)
	}

	return header + "\n" + body + "\n" + status
}

func (m appModel) renderBody(width, height int) string {
	switch m.view {
	case viewBoard:
		return m.renderBoard(width, height)
	case viewContacts:
		return normalizePane(m.contactsList.View(), width, height)
	case viewCompanies:
		return normalizePane(m.companiesList.View(), width, height)
	case viewActivities:
		return normalizePane(m.activitiesList.View(), width, height)
	case viewDashboard:
		return m.renderDashboard(width, height)
	default:
		return normalizePane("", width, height)
	}
}

func (m appModel) renderHeader() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	inactive := styleMuted().Padding(0, 1)

	parts := make([]string, 0, len(viewTabs)+1)
	parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(" flowcrm "))
	for _, t := range viewTabs {
		st := inactive
		if t.v == m.view {
			st = active
		}
		parts = append(parts, st.Render(t.label))
	}
	return normalizePane(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width, 1)
}

func (m appModel) renderStatusLine() string {
	if m.toast != "" {
		st := lipgloss.NewStyle().Foreground(colorOkFg)
		if m.toastIsErr {
			st = lipgloss.NewStyle().Foreground(colorErrorFg)
		}
		return normalizePane(st.Render(" "+m.toast), m.width, 1)
	}
	return normalizePane(styleMuted().Render(" "+m.helpText()), m.width, 1)
}

func (m appModel) helpText() string {
	switch {
	case m.loading || m.loadErr != nil:
		return ""
	case m.modal == modalDealForm:
		return "tab: next field   ctrl+s: save   esc: cancel"
	case m.modal == modalConfirmDelete:
		return "y: delete   n: keep"
	case m.view == viewBoard && m.drag.State() == board.DragDragging:
		return "h/l: target column   w/x: won/lost   enter: drop   esc: cancel"
	case m.view == viewBoard:
		return "h/j/k/l: navigate   space: pick up   n: new   e: edit   d: delete   r: reload   tab: next screen   q: quit"
	case m.view == viewDashboard:
		return "r: reload   tab: next screen   q: quit"
	default:
		return "j/k: navigate   /: filter   r: reload   tab: next screen   q: quit"
	}
}

func (m appModel) overlayModal(body string, bodyH int) string {
	var modal string
	switch m.modal {
	case modalDealForm:
		if m.form == nil {
			return body
		}
		modal = m.form.View(m.width)
	case modalConfirmDelete:
		title := "Delete deal"
		label := "this deal"
		for _, d := range m.deals {
			if d.ID == m.confirmDealID {
				label = "“" + d.Title + "”"
				break
			}
		}
		modal = renderConfirmModal(m.width, title, "Delete "+label+"? This cannot be undone.", "Delete", "Cancel", m.confirmFocus)
	default:
		return body
	}

	return lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, modal)
}
