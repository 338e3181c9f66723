package tui

import (
	"errors"
	"testing"

	"flowcrm/internal/gateway/gatewaytest"
	"flowcrm/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var errBoom = errors.New("backend unavailable")

func init() {
	// Plain output so assertions can match on text, not escape codes.
	lipgloss.SetColorProfile(termenv.Ascii)
}

// newTestApp builds an app against the fake gateway, sizes it, and completes
// the initial load synchronously.
func newTestApp(t *testing.T, f *gatewaytest.Fake) appModel {
	t.Helper()

	m := newAppModel(Options{Gateway: f.Gateway(), Store: store.Store{Dir: t.TempDir()}})

	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mm.(appModel)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned no load command")
	}
	mm, _ = m.Update(cmd())
	return mm.(appModel)
}

func press(t *testing.T, m appModel, key string) (appModel, tea.Cmd) {
	t.Helper()

	var k tea.KeyMsg
	switch key {
	case "enter":
		k = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		k = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		k = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		k = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		k = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	mm, cmd := m.Update(k)
	return mm.(appModel), cmd
}
