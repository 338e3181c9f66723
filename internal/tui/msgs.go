package tui

import (
	"context"
	"time"

	"flowcrm/internal/gateway"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type loadedMsg struct {
	seq int

	deals      []model.Deal
	contacts   []model.Contact
	companies  []model.Company
	activities []model.Activity

	err error
}

type dealMovedMsg struct {
	seq int
	id  int
	to  stage.Stage

	moved model.Deal
	err   error
}

type dealSavedMsg struct {
	seq     int
	deal    model.Deal
	created bool
	err     error
}

type dealDeletedMsg struct {
	seq int
	id  int
	err error
}

type clearToastMsg struct {
	seq int
}

const requestTimeout = 15 * time.Second

// loadAll fetches all four caches concurrently. Partial loads never render:
// any failure discards everything and surfaces the error screen.
func (m appModel) loadAll(seq int) tea.Cmd {
	gw := m.gw
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		out := loadedMsg{seq: seq}
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			out.deals, err = gw.Deals.List(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			out.contacts, err = gw.Contacts.List(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			out.companies, err = gw.Companies.List(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			out.activities, err = gw.Activities.List(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Warn("initial load failed", zap.Error(err))
			return loadedMsg{seq: seq, err: err}
		}
		return out
	}
}

func (m appModel) moveDeal(seq, id int, to stage.Stage) tea.Cmd {
	gw := m.gw
	st := m.st
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		moved, err := gw.Deals.MoveStage(ctx, []gateway.StageMove{{ID: id, Stage: to}})
		out := dealMovedMsg{seq: seq, id: id, to: to, err: err}
		if err == nil && len(moved) > 0 {
			out.moved = moved[0]
			_ = st.AppendEvent(ctx, "deal.move", "deal", id, map[string]any{"stage": to})
		}
		return out
	}
}

func (m appModel) saveDeal(seq int, id int, d model.Deal, p gateway.DealPatch) tea.Cmd {
	gw := m.gw
	st := m.st
	create := id == 0
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			saved model.Deal
			err   error
		)
		if create {
			saved, err = gw.Deals.Create(ctx, d)
		} else {
			saved, err = gw.Deals.Update(ctx, id, p)
		}
		if err == nil {
			event := "deal.update"
			if create {
				event = "deal.create"
			}
			_ = st.AppendEvent(ctx, event, "deal", saved.ID, saved)
		}
		return dealSavedMsg{seq: seq, deal: saved, created: create, err: err}
	}
}

func (m appModel) deleteDeal(seq, id int) tea.Cmd {
	gw := m.gw
	st := m.st
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := gw.Deals.Delete(ctx, id)
		if err == nil {
			_ = st.AppendEvent(ctx, "deal.delete", "deal", id, nil)
		}
		return dealDeletedMsg{seq: seq, id: id, err: err}
	}
}

const toastDuration = 4 * time.Second

func (m *appModel) setToast(text string, isErr bool) tea.Cmd {
	m.toast = text
	m.toastIsErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}
