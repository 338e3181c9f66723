package cli

import (
	"flowcrm/internal/model"
	"flowcrm/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		out       string
		title     string
		recent    int
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the pipeline as a markdown report",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := app.gateway()

			var (
				deals      []model.Deal
				contacts   []model.Contact
				companies  []model.Company
				activities []model.Activity
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				deals, err = gw.Deals.List(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				contacts, err = gw.Contacts.List(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				companies, err = gw.Companies.List(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				activities, err = gw.Activities.List(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}

			opt := report.Options{Title: title, RecentActivities: recent, Overwrite: overwrite}
			if out == "-" || out == "" {
				_, err := cmd.OutOrStdout().Write([]byte(report.Render(deals, contacts, companies, activities, opt)))
				return err
			}
			if err := report.Write(out, deals, contacts, companies, activities, opt); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"written": out}})
		},
	}

	cmd.Flags().StringVar(&out, "to", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().IntVar(&recent, "recent", 10, "Recent activities to include (0 hides the section)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
