package tui

import (
	"flowcrm/internal/board"
	"flowcrm/internal/gateway"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"
	"flowcrm/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type view int

const (
	viewBoard view = iota
	viewContacts
	viewCompanies
	viewActivities
	viewDashboard
)

func (v view) String() string {
	switch v {
	case viewBoard:
		return "board"
	case viewContacts:
		return "contacts"
	case viewCompanies:
		return "companies"
	case viewActivities:
		return "activities"
	case viewDashboard:
		return "dashboard"
	default:
		return "board"
	}
}

func parseView(s string) view {
	switch s {
	case "contacts":
		return viewContacts
	case "companies":
		return viewCompanies
	case "activities":
		return viewActivities
	case "dashboard":
		return viewDashboard
	default:
		return viewBoard
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalDealForm
	modalConfirmDelete
)

type appModel struct {
	gw  gateway.Gateway
	st  store.Store
	log *zap.Logger

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	view view

	// Caches. The board and dashboard recompute their buckets/metrics from
	// these on every render; there is no per-column storage.
	deals      []model.Deal
	contacts   []model.Contact
	companies  []model.Company
	activities []model.Activity

	loading bool
	loadErr error
	// loadSeq invalidates in-flight async results across reloads. A stale
	// loadedMsg or dealMovedMsg carrying an older seq is discarded.
	loadSeq int

	// Board selection: column index into stage.Active() plus per-column row.
	boardCol int
	boardRow map[stage.Stage]int
	// restoreDealID re-selects the previously focused card once the first
	// load lands, then resets to 0.
	restoreDealID int
	drag          board.Drag
	// dropTarget is the stage the in-flight card would land on.
	dropTarget stage.Stage

	contactsList   list.Model
	companiesList  list.Model
	activitiesList list.Model

	modal         modalKind
	form          *dealFormState
	confirmFocus  confirmModalFocus
	confirmDealID int

	toast      string
	toastIsErr bool
	toastSeq   int
}

func newAppModel(opts Options) appModel {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := appModel{
		gw:       opts.Gateway,
		st:       opts.Store,
		log:      log,
		view:     viewBoard,
		loading:  true,
		boardRow: map[stage.Stage]int{},
	}

	m.contactsList = newEntityList("Contacts")
	m.companiesList = newEntityList("Companies")
	m.activitiesList = newEntityList("Activities")

	// Best effort: restore the last screen and board selection.
	if st, err := m.st.LoadUIState(); err == nil && st != nil {
		m.view = parseView(st.View)
		if s, perr := stage.Parse(st.BoardStage); perr == nil {
			for i, as := range stage.Active() {
				if as == s {
					m.boardCol = i
					break
				}
			}
		}
		if st.BoardDealID > 0 {
			m.restoreDealID = st.BoardDealID
		}
	}

	return m
}

func (m appModel) Init() tea.Cmd {
	return m.loadAll(m.loadSeq)
}

// saveUIState persists the current screen so a relaunch lands where the user
// left off. Failures are ignored; this is convenience state, not data.
func (m *appModel) saveUIState() {
	st := &store.UIState{
		Version: 1,
		View:    m.view.String(),
	}
	if m.view == viewBoard {
		cols := stage.Active()
		if m.boardCol >= 0 && m.boardCol < len(cols) {
			st.BoardStage = string(cols[m.boardCol])
			if d, ok := m.selectedDeal(); ok {
				st.BoardDealID = d.ID
			}
		}
	}
	_ = m.st.SaveUIState(st)
}
