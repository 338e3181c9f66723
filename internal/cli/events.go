package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Local action log",
	}
	cmd.AddCommand(newEventsListCmd(app))
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show logged actions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.store().ListEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": events})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum events to show")
	return cmd
}
