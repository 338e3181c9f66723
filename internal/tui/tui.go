package tui

import (
	"flowcrm/internal/gateway"
	"flowcrm/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options carries everything the TUI needs. The gateway and store are passed
// down explicitly so tests can substitute fakes.
type Options struct {
	Gateway gateway.Gateway
	Store   store.Store
	Log     *zap.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
