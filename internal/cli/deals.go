package cli

import (
	"strconv"

	"flowcrm/internal/gateway"
	"flowcrm/internal/model"
	"flowcrm/internal/stage"

	"github.com/spf13/cobra"
)

func newDealsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Deal commands",
	}
	cmd.AddCommand(newDealsListCmd(app))
	cmd.AddCommand(newDealsGetCmd(app))
	cmd.AddCommand(newDealsCreateCmd(app))
	cmd.AddCommand(newDealsUpdateCmd(app))
	cmd.AddCommand(newDealsMoveCmd(app))
	cmd.AddCommand(newDealsDeleteCmd(app))
	return cmd
}

func parseID(arg string) (int, error) {
	return strconv.Atoi(arg)
}

func newDealsListCmd(app *App) *cobra.Command {
	var stageFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			deals, err := app.gateway().Deals.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if stageFilter != "" {
				st, err := stage.Parse(stageFilter)
				if err != nil {
					return writeErr(cmd, err)
				}
				filtered := deals[:0]
				for _, d := range deals {
					if d.Stage == st {
						filtered = append(filtered, d)
					}
				}
				deals = filtered
			}
			return writeOut(cmd, app, map[string]any{"data": deals})
		},
	}

	cmd.Flags().StringVar(&stageFilter, "stage", "", "Only deals in this stage")
	return cmd
}

func newDealsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := app.gateway().Deals.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
	return cmd
}

func newDealsCreateCmd(app *App) *cobra.Command {
	var (
		title     string
		value     float64
		stageName string
		closeDate string
		contactID int
		companyID int
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deal",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := stage.Parse(stageName)
			if err != nil {
				return writeErr(cmd, err)
			}
			d := model.Deal{
				Title:             title,
				Value:             value,
				Stage:             st,
				ExpectedCloseDate: closeDate,
				Notes:             notes,
			}
			if cmd.Flags().Changed("contact") {
				d.ContactID = &contactID
			}
			if cmd.Flags().Changed("company") {
				d.CompanyID = &companyID
			}
			// Validation happens before any gateway round-trip.
			if err := d.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			created, err := app.gateway().Deals.Create(cmd.Context(), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "deal.create", "deal", created.ID, created)
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deal title")
	cmd.Flags().Float64Var(&value, "value", 0, "Deal value (USD)")
	cmd.Flags().StringVar(&stageName, "stage", string(stage.LeadIn), "Pipeline stage")
	cmd.Flags().StringVar(&closeDate, "close", "", "Expected close date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&contactID, "contact", 0, "Contact id")
	cmd.Flags().IntVar(&companyID, "company", 0, "Company id")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("close")
	return cmd
}

func newDealsUpdateCmd(app *App) *cobra.Command {
	var (
		title     string
		value     float64
		stageName string
		closeDate string
		contactID int
		companyID int
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a deal (only supplied flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p gateway.DealPatch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("value") {
				p.Value = &value
			}
			if cmd.Flags().Changed("stage") {
				st, err := stage.Parse(stageName)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.Stage = &st
			}
			if cmd.Flags().Changed("close") {
				p.ExpectedCloseDate = &closeDate
			}
			if cmd.Flags().Changed("contact") {
				p.ContactID = &contactID
			}
			if cmd.Flags().Changed("company") {
				p.CompanyID = &companyID
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			d, err := app.gateway().Deals.Update(cmd.Context(), id, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "deal.update", "deal", d.ID, d)
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deal title")
	cmd.Flags().Float64Var(&value, "value", 0, "Deal value (USD)")
	cmd.Flags().StringVar(&stageName, "stage", "", "Pipeline stage")
	cmd.Flags().StringVar(&closeDate, "close", "", "Expected close date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&contactID, "contact", 0, "Contact id")
	cmd.Flags().IntVar(&companyID, "company", 0, "Company id")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func newDealsMoveCmd(app *App) *cobra.Command {
	var stageName string

	cmd := &cobra.Command{
		Use:   "move <id> [id...]",
		Short: "Move deals to another pipeline stage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := stage.Parse(stageName)
			if err != nil {
				return writeErr(cmd, err)
			}
			moves := make([]gateway.StageMove, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return writeErr(cmd, err)
				}
				moves = append(moves, gateway.StageMove{ID: id, Stage: st})
			}

			moved, err := app.gateway().Deals.MoveStage(cmd.Context(), moves)
			for _, d := range moved {
				_ = app.store().AppendEvent(cmd.Context(), "deal.move", "deal", d.ID, map[string]any{"stage": d.Stage})
			}
			if err != nil {
				// Partial failure: report what failed, keep what succeeded.
				if pe, ok := err.(gateway.PartialError); ok {
					_ = writeOut(cmd, app, map[string]any{"data": moved, "failed": pe.Failed})
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": moved})
		},
	}

	cmd.Flags().StringVar(&stageName, "stage", "", "Target stage")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}

func newDealsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.gateway().Deals.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "deal.delete", "deal", id, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}
