package cli

import (
	"flowcrm/internal/gateway"
	"flowcrm/internal/model"

	"github.com/spf13/cobra"
)

func newCompaniesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Company commands",
	}
	cmd.AddCommand(newCompaniesListCmd(app))
	cmd.AddCommand(newCompaniesGetCmd(app))
	cmd.AddCommand(newCompaniesCreateCmd(app))
	cmd.AddCommand(newCompaniesUpdateCmd(app))
	cmd.AddCommand(newCompaniesDeleteCmd(app))
	return cmd
}

func newCompaniesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := app.gateway().Companies.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": companies})
		},
	}
}

func newCompaniesGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.gateway().Companies.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
}

func newCompaniesCreateCmd(app *App) *cobra.Command {
	var (
		name     string
		industry string
		website  string
		phone    string
		address  string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Company{
				Name:     name,
				Industry: industry,
				Website:  website,
				Phone:    phone,
				Address:  address,
				Notes:    notes,
			}
			if err := c.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			created, err := app.gateway().Companies.Create(cmd.Context(), c)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "company.create", "company", created.ID, created)
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCompaniesUpdateCmd(app *App) *cobra.Command {
	var (
		name     string
		industry string
		website  string
		phone    string
		address  string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a company (only supplied flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p gateway.CompanyPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("industry") {
				p.Industry = &industry
			}
			if cmd.Flags().Changed("website") {
				p.Website = &website
			}
			if cmd.Flags().Changed("phone") {
				p.Phone = &phone
			}
			if cmd.Flags().Changed("address") {
				p.Address = &address
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			c, err := app.gateway().Companies.Update(cmd.Context(), id, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "company.update", "company", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func newCompaniesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.gateway().Companies.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			_ = app.store().AppendEvent(cmd.Context(), "company.delete", "company", id, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}
