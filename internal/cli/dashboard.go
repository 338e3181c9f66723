package cli

import (
	"flowcrm/internal/dashboard"
	"flowcrm/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDashboardCmd(app *App) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Pipeline metrics and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := app.gateway()

			var (
				deals      []model.Deal
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
				activities, err = gw.Activities.List(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}

			m := dashboard.Compute(deals, activities)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"metrics": m,
					"recent":  dashboard.RecentActivities(activities, recent),
				},
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 5, "How many recent activities to include")
	return cmd
}
