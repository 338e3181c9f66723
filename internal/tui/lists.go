package tui

import (
	"fmt"
	"sort"
	"strings"

	"flowcrm/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// entityItem is a precomputed list row. Foreign keys are resolved to names
// when the caches refresh, not during render.
type entityItem struct {
	id     int
	title  string
	desc   string
	filter string
}

func (i entityItem) Title() string       { return i.title }
func (i entityItem) Description() string { return i.desc }
func (i entityItem) FilterValue() string { return i.filter }

func newEntityList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// Bubble list defaults to quitting on ESC and q; both are app-level keys here.
	l.KeyMap.Quit.SetKeys("ctrl+c")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func contactItems(contacts []model.Contact, companies []model.Company) []list.Item {
	items := make([]list.Item, 0, len(contacts))
	for _, c := range contacts {
		desc := joinNonEmpty(" · ", c.JobTitle, model.CompanyName(companies, c.CompanyID), c.Email)
		items = append(items, entityItem{
			id:     c.ID,
			title:  c.Name,
			desc:   desc,
			filter: c.Name,
		})
	}
	return items
}

func companyItems(companies []model.Company) []list.Item {
	items := make([]list.Item, 0, len(companies))
	for _, c := range companies {
		desc := joinNonEmpty(" · ", c.Industry, c.Website)
		items = append(items, entityItem{
			id:     c.ID,
			title:  c.Name,
			desc:   desc,
			filter: c.Name,
		})
	}
	return items
}

func activityItems(activities []model.Activity, deals []model.Deal, contacts []model.Contact, companies []model.Company) []list.Item {
	// Newest first; the remote list order is not guaranteed.
	sorted := make([]model.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	items := make([]list.Item, 0, len(sorted))
	for _, a := range sorted {
		linked := joinNonEmpty(" · ",
			model.DealTitle(deals, a.DealID),
			model.ContactName(contacts, a.ContactID),
			model.CompanyName(companies, a.CompanyID),
		)
		title := fmt.Sprintf("%s  %s", a.Type, a.Description)
		desc := joinNonEmpty(" · ", a.Date.Format("2006-01-02 15:04"), linked)
		items = append(items, entityItem{
			id:     a.ID,
			title:  title,
			desc:   desc,
			filter: a.Description,
		})
	}
	return items
}
