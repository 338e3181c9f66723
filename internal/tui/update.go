package tui

import (
	"time"

	"flowcrm/internal/board"
	"flowcrm/internal/stage"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case loadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.deals = msg.deals
		m.contacts = msg.contacts
		m.companies = msg.companies
		m.activities = msg.activities
		// A reload invalidates any gesture that was in flight.
		m.drag = board.Drag{}
		m.refreshLists()
		if m.restoreDealID != 0 {
			m.selectDealID(m.restoreDealID)
			m.restoreDealID = 0
		}
		m.clampBoard()
		return m, nil

	case dealMovedMsg:
		if msg.seq != m.loadSeq {
			// The caches were reloaded while the commit was in flight; the
			// fresh server state already reflects whatever happened.
			return m, nil
		}
		rollback, needed := m.drag.Resolve(msg.err)
		if msg.err != nil {
			if needed {
				m.deals = board.RevertDeal(m.deals, rollback)
			}
			m.clampBoard()
			return m, m.setToast("Move failed: "+msg.err.Error(), true)
		}
		if msg.moved.ID != 0 {
			m.deals = board.ReplaceDeal(m.deals, msg.moved)
		}
		m.clampBoard()
		t := board.Transition{DealID: msg.id, To: msg.to}
		return m, m.setToast(t.Notification(), false)

	case dealSavedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setToast("Save failed: "+msg.err.Error(), true)
		}
		if msg.created {
			m.deals = append(m.deals, msg.deal)
		} else {
			m.deals = board.ReplaceDeal(m.deals, msg.deal)
		}
		m.selectDealID(msg.deal.ID)
		m.clampBoard()
		if msg.created {
			return m, m.setToast("Deal created", false)
		}
		return m, m.setToast("Deal updated", false)

	case dealDeletedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setToast("Delete failed: "+msg.err.Error(), true)
		}
		kept := m.deals[:0]
		for _, d := range m.deals {
			if d.ID != msg.id {
				kept = append(kept, d)
			}
		}
		m.deals = kept
		m.clampBoard()
		return m, m.setToast("Deal deleted", false)

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveList(msg)
}

func (m *appModel) resizeLists() {
	w := maxInt(m.width-2, 0)
	h := maxInt(m.height-4, 0)
	m.contactsList.SetSize(w, h)
	m.companiesList.SetSize(w, h)
	m.activitiesList.SetSize(w, h)
}

func (m *appModel) refreshLists() {
	m.contactsList.SetItems(contactItems(m.contacts, m.companies))
	m.companiesList.SetItems(companyItems(m.companies))
	m.activitiesList.SetItems(activityItems(m.activities, m.deals, m.contacts, m.companies))
}

func (m appModel) activeList() *list.Model {
	switch m.view {
	case viewContacts:
		return &m.contactsList
	case viewCompanies:
		return &m.companiesList
	case viewActivities:
		return &m.activitiesList
	default:
		return nil
	}
}

func (m appModel) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m appModel) reload() (tea.Model, tea.Cmd) {
	m.loadSeq++
	m.loading = true
	m.loadErr = nil
	m.drag = board.Drag{}
	return m, m.loadAll(m.loadSeq)
}

func (m appModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()

	if key == "ctrl+c" {
		m.saveUIState()
		return m, tea.Quit
	}

	switch m.modal {
	case modalDealForm:
		return m.handleFormKey(k)
	case modalConfirmDelete:
		return m.handleConfirmKey(k)
	}

	if m.loading {
		return m, nil
	}
	if m.loadErr != nil {
		switch key {
		case "r":
			return m.reload()
		case "q":
			m.saveUIState()
			return m, tea.Quit
		}
		return m, nil
	}

	// While the list is filtering, every key belongs to the filter input.
	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateActiveList(k)
	}

	if m.view == viewBoard && m.drag.State() == board.DragDragging {
		return m.handleDragKey(key)
	}

	switch key {
	case "q":
		m.saveUIState()
		return m, tea.Quit
	case "r":
		return m.reload()
	case "tab":
		m.setView((m.view + 1) % 5)
		return m, nil
	case "shift+tab":
		m.setView((m.view + 4) % 5)
		return m, nil
	case "1":
		m.setView(viewBoard)
		return m, nil
	case "2":
		m.setView(viewContacts)
		return m, nil
	case "3":
		m.setView(viewCompanies)
		return m, nil
	case "4":
		m.setView(viewActivities)
		return m, nil
	case "5":
		m.setView(viewDashboard)
		return m, nil
	}

	if m.view == viewBoard {
		return m.handleBoardKey(key)
	}
	return m.updateActiveList(k)
}

func (m *appModel) setView(v view) {
	m.view = v
	m.saveUIState()
}

func (m appModel) handleBoardKey(key string) (tea.Model, tea.Cmd) {
	cols := stage.Active()
	s := cols[m.boardCol]

	switch key {
	case "h", "left":
		m.boardCol--
		m.clampBoard()
	case "l", "right":
		m.boardCol++
		m.clampBoard()
	case "j", "down":
		m.boardRow[s]++
		m.clampBoard()
	case "k", "up":
		m.boardRow[s]--
		m.clampBoard()
	case "g":
		m.boardRow[s] = 0
	case "G":
		m.boardRow[s] = len(board.BucketFor(m.deals, s)) - 1
		m.clampBoard()
	case " ", "m":
		d, ok := m.selectedDeal()
		if !ok {
			return m, nil
		}
		if err := m.drag.Begin(d); err != nil {
			return m, m.setToast(err.Error(), true)
		}
		m.dropTarget = d.Stage
	case "n":
		m.form = newDealForm(nil, s)
		m.modal = modalDealForm
	case "e", "enter":
		d, ok := m.selectedDeal()
		if !ok {
			return m, nil
		}
		m.form = newDealForm(&d, d.Stage)
		m.modal = modalDealForm
	case "d":
		d, ok := m.selectedDeal()
		if !ok {
			return m, nil
		}
		m.confirmDealID = d.ID
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmDelete
	}
	return m, nil
}

func (m appModel) handleDragKey(key string) (tea.Model, tea.Cmd) {
	cols := stage.Active()

	targetIdx := func() int {
		for i, s := range cols {
			if s == m.dropTarget {
				return i
			}
		}
		// Terminal target: step back in from the source column.
		for i, s := range cols {
			if s == m.drag.Snapshot().Stage {
				return i
			}
		}
		return 0
	}

	switch key {
	case "h", "left":
		idx := targetIdx() - 1
		if idx < 0 {
			idx = 0
		}
		m.dropTarget = cols[idx]
	case "l", "right":
		idx := targetIdx() + 1
		if idx >= len(cols) {
			idx = len(cols) - 1
		}
		m.dropTarget = cols[idx]
	case "w":
		m.dropTarget = stage.Won
	case "x":
		m.dropTarget = stage.Lost
	case "esc":
		m.drag.Cancel()
	case "enter", " ", "m":
		t, ok := m.drag.Drop(m.dropTarget)
		if !ok {
			// Same column or invalid target: the gesture simply ends.
			return m, nil
		}
		m.deals = board.ApplyStage(m.deals, t.DealID, t.To, time.Now())
		m.clampBoard()
		return m, m.moveDeal(m.loadSeq, t.DealID, t.To)
	}
	return m, nil
}

func (m appModel) handleFormKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.modal = modalNone
		m.form = nil
		return m, nil
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "enter":
		// Enter advances through single-line fields; in the notes textarea it
		// inserts a newline.
		if m.form.focus != formFieldNotes {
			m.form.setFocus(m.form.focus + 1)
			return m, nil
		}
	case "ctrl+s":
		d, p, err := m.form.build()
		if err != nil {
			m.form.errText = err.Error()
			return m, nil
		}
		id := m.form.id
		m.modal = modalNone
		m.form = nil
		return m, m.saveDeal(m.loadSeq, id, d, p)
	}
	cmd := m.form.Update(k)
	return m, cmd
}

func (m appModel) handleConfirmKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := func() (tea.Model, tea.Cmd) {
		id := m.confirmDealID
		m.modal = modalNone
		m.confirmDealID = 0
		return m, m.deleteDeal(m.loadSeq, id)
	}
	cancel := func() (tea.Model, tea.Cmd) {
		m.modal = modalNone
		m.confirmDealID = 0
		return m, nil
	}

	switch k.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return confirm()
	case "n", "esc":
		return cancel()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return confirm()
		}
		return cancel()
	}
	return m, nil
}
