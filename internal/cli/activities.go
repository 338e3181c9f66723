package cli

import (
	"fmt"
	"time"

	"flowcrm/internal/gateway"
	"flowcrm/internal/model"

	"github.com/spf13/cobra"
)

func newActivitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Activity commands",
	}
	cmd.AddCommand(newActivitiesListCmd(app))
	cmd.AddCommand(newActivitiesGetCmd(app))
	cmd.AddCommand(newActivitiesCreateCmd(app))
	cmd.AddCommand(newActivitiesUpdateCmd(app))
	cmd.AddCommand(newActivitiesDeleteCmd(app))
	return cmd
}

func parseActivityDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Accept a bare date too; timestamps stay optional.
		t, err = time.Parse("2006-01-02", s)
	}
	return t, err
}

func newActivitiesListCmd(app *App) *cobra.Command {
	var (
		dealID    int
		contactID int
		companyID int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			activities, err := app.gateway().Activities.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("deal") || cmd.Flags().Changed("contact") || cmd.Flags().Changed("company") {
				filtered := activities[:0]
				for _, a := range activities {
					switch {
					case cmd.Flags().Changed("deal") && (a.DealID == nil || *a.DealID != dealID):
					case cmd.Flags().Changed("contact") && (a.ContactID == nil || *a.ContactID != contactID):
					case cmd.Flags().Changed("company") && (a.CompanyID == nil || *a.CompanyID != companyID):
					default:
						filtered = append(filtered, a)
					}
				}
				activities = filtered
			}
			return writeOut(cmd, app, map[string]any{"data": activities})
		},
	}

	cmd.Flags().IntVar(&dealID, "deal", 0, "Only activities linked to this deal")
	cmd.Flags().IntVar(&contactID, "contact", 0, "Only activities linked to this contact")
	cmd.Flags().IntVar(&companyID, "company", 0, "Only activities linked to this company")
	return cmd
}

func newActivitiesGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := app.gateway().Activities.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}
}

func newActivitiesCreateCmd(app *App) *cobra.Command {
	var (
		activityType string
		description  string
		date         string
		dealID       int
		contactID    int
		companyID    int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Log an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := model.Activity{
				Type:        model.ActivityType(activityType),
				Description: description,
				Date:        time.Now(),
			}
			if date != "" {
				t, err := parseActivityDate(date)
				if err != nil {
					return writeErr(cmd, err)
				}
				a.Date = t
			}
			if cmd.Flags().Changed("deal") {
				a.DealID = &dealID
			}
			if cmd.Flags().Changed("contact") {
				a.ContactID = &contactID
			}
			if cmd.Flags().Changed("company") {
				a.CompanyID = &companyID
			}
			if err := a.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			created, err := app.gateway().Activities.Create(cmd.Context(), a)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "activity.create", "activity", created.ID, created)
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&activityType, "type", string(model.ActivityCall), "Activity type (Call, Meeting, Email, Task, Note)")
	cmd.Flags().StringVar(&description, "description", "", "What happened")
	cmd.Flags().StringVar(&date, "date", "", "When it happened (RFC3339 or YYYY-MM-DD, default now)")
	cmd.Flags().IntVar(&dealID, "deal", 0, "Linked deal id")
	cmd.Flags().IntVar(&contactID, "contact", 0, "Linked contact id")
	cmd.Flags().IntVar(&companyID, "company", 0, "Linked company id")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newActivitiesUpdateCmd(app *App) *cobra.Command {
	var (
		activityType string
		description  string
		date         string
		dealID       int
		contactID    int
		companyID    int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p gateway.ActivityPatch
			if cmd.Flags().Changed("type") {
				at := model.ActivityType(activityType)
				if !model.ValidActivityType(at) {
					return writeErr(cmd, fmt.Errorf("unknown activity type %q", activityType))
				}
				p.Type = &at
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if cmd.Flags().Changed("date") {
				t, err := parseActivityDate(date)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.Date = &t
			}
			if cmd.Flags().Changed("deal") {
				p.DealID = &dealID
			}
			if cmd.Flags().Changed("contact") {
				p.ContactID = &contactID
			}
			if cmd.Flags().Changed("company") {
				p.CompanyID = &companyID
			}
			updated, err := app.gateway().Activities.Update(cmd.Context(), id, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "activity.update", "activity", updated.ID, updated)
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}

	cmd.Flags().StringVar(&activityType, "type", "", "Activity type (Call, Meeting, Email, Task, Note)")
	cmd.Flags().StringVar(&description, "description", "", "What happened")
	cmd.Flags().StringVar(&date, "date", "", "When it happened (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&dealID, "deal", 0, "Linked deal id")
	cmd.Flags().IntVar(&contactID, "contact", 0, "Linked contact id")
	cmd.Flags().IntVar(&companyID, "company", 0, "Linked company id")
	return cmd
}

func newActivitiesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.gateway().Activities.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "activity.delete", "activity", id, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}
