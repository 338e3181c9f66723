package tui

import (
	"fmt"
	"strings"

	"flowcrm/internal/board"
	"flowcrm/internal/model"
	"flowcrm/internal/money"
	"flowcrm/internal/stage"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) clampBoard() {
	cols := stage.Active()
	if m.boardCol < 0 {
		m.boardCol = 0
	}
	if m.boardCol >= len(cols) {
		m.boardCol = len(cols) - 1
	}
	s := cols[m.boardCol]
	n := len(board.BucketFor(m.deals, s))
	row := m.boardRow[s]
	if row >= n {
		row = n - 1
	}
	if row < 0 {
		row = 0
	}
	m.boardRow[s] = row
}

// selectedDeal is the card under the cursor (not the one in flight).
func (m appModel) selectedDeal() (model.Deal, bool) {
	cols := stage.Active()
	if m.boardCol < 0 || m.boardCol >= len(cols) {
		return model.Deal{}, false
	}
	s := cols[m.boardCol]
	bucket := board.BucketFor(m.deals, s)
	row := m.boardRow[s]
	if row < 0 || row >= len(bucket) {
		return model.Deal{}, false
	}
	return bucket[row], true
}

// selectDealID moves the board cursor onto the given deal if it is in an
// active column.
func (m *appModel) selectDealID(id int) {
	for ci, s := range stage.Active() {
		for ri, d := range board.BucketFor(m.deals, s) {
			if d.ID == id {
				m.boardCol = ci
				m.boardRow[s] = ri
				return
			}
		}
	}
}

func (m appModel) renderBoard(width, height int) string {
	detailW := 0
	if width >= 104 {
		detailW = 34
	}
	colsW := width - detailW
	if detailW > 0 {
		colsW-- // gap
	}

	dropBarH := 2
	columns := m.renderColumns(colsW, height-dropBarH)
	dropBar := m.renderDropBar(colsW)

	left := columns + "\n" + dropBar
	if detailW == 0 {
		return normalizePane(left, width, height)
	}

	detail := m.renderDealDetail(detailW, height)
	out := lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, colsW, height),
		" ",
		normalizePane(detail, detailW, height),
	)
	return normalizePane(out, width, height)
}

func (m appModel) renderColumns(width, height int) string {
	cols := stage.Active()
	n := len(cols)

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 12 {
		colW = 12
	}

	rendered := make([]string, 0, n)
	for i, s := range cols {
		rendered = append(rendered, m.renderColumn(s, i, colW, height))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return normalizePane(out, width, height)
}

func (m appModel) renderColumn(s stage.Stage, colIdx, colW, height int) string {
	bucket := board.BucketFor(m.deals, s)

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(stageAccent(s))
	if m.dragging() && m.dropTarget == s {
		headStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTargetFg).Underline(true)
	} else if !m.dragging() && colIdx == m.boardCol {
		headStyle = headStyle.Underline(true)
	}

	head := truncateText(fmt.Sprintf("%s (%d)", s, len(bucket)), colW)
	value := styleMuted().Render(truncateText(money.FormatUSD(board.StageValue(m.deals, s)), colW))

	lines := []string{headStyle.Render(head), value, ""}

	if len(bucket) == 0 {
		lines = append(lines, styleMuted().Render("(empty)"))
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	for i, d := range bucket {
		selected := colIdx == m.boardCol && i == m.boardRow[s] && !m.dragging()
		inFlight := m.drag.State() != board.DragIdle && m.drag.DealID() == d.ID
		card := m.renderCard(d, colW, selected, inFlight)
		lines = append(lines, strings.Split(card, "\n")...)

		if i < len(bucket)-1 {
			sepW := maxInt(colW-2, 0)
			lines = append(lines, styleMuted().Render(" "+strings.Repeat("─", sepW)+" "))
		}
	}
	return normalizePane(strings.Join(lines, "\n"), colW, height)
}

func (m appModel) renderCard(d model.Deal, colW int, selected, inFlight bool) string {
	innerW := maxInt(colW-2, 1)

	cardStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true)
	switch {
	case inFlight:
		cardStyle = cardStyle.Background(colorDragBg)
		titleStyle = titleStyle.Background(colorDragBg)
	case selected:
		cardStyle = cardStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
		titleStyle = titleStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "(untitled)"
	}

	meta := joinNonEmpty("  ", money.FormatUSD(d.Value), d.ExpectedCloseDate)
	contact := model.ContactName(m.contacts, d.ContactID)

	content := []string{titleStyle.Render(truncateText(title, innerW))}
	content = append(content, truncateText(meta, innerW))
	if contact != "" {
		content = append(content, styleMuted().Render(truncateText(contact, innerW)))
	}

	return cardStyle.Render(normalizePane(strings.Join(content, "\n"), innerW, 0))
}

// renderDropBar shows the terminal targets. Won and Lost are not columns;
// while a card is in flight they light up as drop zones.
func (m appModel) renderDropBar(width int) string {
	zone := func(s stage.Stage, key string) string {
		st := lipgloss.NewStyle().Padding(0, 2).Foreground(stageAccent(s)).Bold(true)
		label := fmt.Sprintf("%s (%d)", s, len(board.BucketFor(m.deals, s)))
		if m.dragging() {
			label = fmt.Sprintf("%s: drop %s", key, s)
			if m.dropTarget == s {
				st = st.Foreground(colorSelectedFg).Background(colorSelectedBg)
			}
		}
		return st.Render(label)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, zone(stage.Won, "w"), "  ", zone(stage.Lost, "x"))
	return normalizePane(styleMuted().Render(strings.Repeat("─", maxInt(width, 0)))+"\n"+bar, width, 2)
}

func (m appModel) renderDealDetail(width, height int) string {
	d, ok := m.selectedDeal()
	if m.drag.State() != board.DragIdle {
		d = m.drag.Snapshot()
		ok = true
	}
	if !ok {
		return normalizePane(styleMuted().Render("No deal selected"), width, height)
	}

	label := styleMuted()
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncateText(d.Title, width)),
		"",
		label.Render("Value    ") + money.FormatUSD(d.Value),
		label.Render("Stage    ") + string(d.Stage),
		label.Render("Close    ") + d.ExpectedCloseDate,
	}
	if name := model.ContactName(m.contacts, d.ContactID); name != "" {
		lines = append(lines, label.Render("Contact  ")+truncateText(name, width-9))
	}
	if name := model.CompanyName(m.companies, d.CompanyID); name != "" {
		lines = append(lines, label.Render("Company  ")+truncateText(name, width-9))
	}
	if strings.TrimSpace(d.Notes) != "" {
		lines = append(lines, "", renderMarkdown(d.Notes, width))
	}

	return normalizePane(strings.Join(lines, "\n"), width, height)
}

func (m appModel) dragging() bool {
	return m.drag.State() == board.DragDragging
}
