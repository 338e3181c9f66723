package cli

import (
	"flowcrm/internal/gateway"
	"flowcrm/internal/model"

	"github.com/spf13/cobra"
)

func newContactsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Contact commands",
	}
	cmd.AddCommand(newContactsListCmd(app))
	cmd.AddCommand(newContactsGetCmd(app))
	cmd.AddCommand(newContactsCreateCmd(app))
	cmd.AddCommand(newContactsUpdateCmd(app))
	cmd.AddCommand(newContactsDeleteCmd(app))
	return cmd
}

func newContactsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := app.gateway().Contacts.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": contacts})
		},
	}
}

func newContactsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.gateway().Contacts.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
}

func newContactsCreateCmd(app *App) *cobra.Command {
	var (
		name      string
		email     string
		phone     string
		jobTitle  string
		companyID int
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Contact{
				Name:     name,
				Email:    email,
				Phone:    phone,
				JobTitle: jobTitle,
				Notes:    notes,
			}
			if cmd.Flags().Changed("company") {
				c.CompanyID = &companyID
			}
			if err := c.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			created, err := app.gateway().Contacts.Create(cmd.Context(), c)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "contact.create", "contact", created.ID, created)
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "Job title")
	cmd.Flags().IntVar(&companyID, "company", 0, "Company id")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newContactsUpdateCmd(app *App) *cobra.Command {
	var (
		name      string
		email     string
		phone     string
		jobTitle  string
		companyID int
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact (only supplied flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p gateway.ContactPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("email") {
				p.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				p.Phone = &phone
			}
			if cmd.Flags().Changed("job-title") {
				p.JobTitle = &jobTitle
			}
			if cmd.Flags().Changed("company") {
				p.CompanyID = &companyID
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			c, err := app.gateway().Contacts.Update(cmd.Context(), id, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "contact.update", "contact", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "Job title")
	cmd.Flags().IntVar(&companyID, "company", 0, "Company id")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func newContactsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.gateway().Contacts.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "contact.delete", "contact", id, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}
