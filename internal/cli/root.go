package cli

import (
	"fmt"
	"strings"
	"time"

	"flowcrm/internal/config"
	"flowcrm/internal/format"
	"flowcrm/internal/gateway"
	"flowcrm/internal/logging"
	"flowcrm/internal/store"
	"flowcrm/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	StateDir   string
	LogPath    string
	Debug      bool
	PrettyJSON bool
	Format     string

	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	cfg := config.Load()
	app := &App{}

	cmd := &cobra.Command{
		Use:          "flowcrm",
		Short:        "FlowCRM sales-pipeline client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive pipeline board
  flowcrm

  # Scriptable commands
  flowcrm deals list
  flowcrm deals move 7 --stage "Proposal Sent"
  flowcrm dashboard
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(app.LogPath, app.Debug)
		if err != nil {
			return err
		}
		app.log = log
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", cfg.BaseURL, "Record API base URL")
	cmd.PersistentFlags().StringVar(&app.APIKey, "api-key", cfg.APIKey, "Record API key (or FLOWCRM_API_KEY)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", cfg.Timeout, "Gateway request timeout")
	cmd.PersistentFlags().StringVar(&app.StateDir, "state-dir", cfg.StateDir, "Local state dir (UI state, action log)")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", cfg.LogPath, "Log file path (empty: logging off)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Debug-level logging")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json)")

	cmd.AddCommand(newDealsCmd(app))
	cmd.AddCommand(newContactsCmd(app))
	cmd.AddCommand(newCompaniesCmd(app))
	cmd.AddCommand(newActivitiesCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newEventsCmd(app))

	return cmd
}

func (app *App) gateway() gateway.Gateway {
	c := gateway.NewClient(app.BaseURL, app.APIKey, app.Timeout, app.log)
	return gateway.NewGateway(c)
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.StateDir}
}

func runTUI(app *App) error {
	return tui.Run(tui.Options{
		Gateway: app.gateway(),
		Store:   app.store(),
		Log:     app.log,
	})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
