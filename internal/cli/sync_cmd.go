package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evanmarch/tempo/internal/gcal"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync with external calendars",
	}

	cmd.AddCommand(newSyncGCalCmd(app))
	return cmd
}

func newSyncGCalCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "gcal",
		Short: "Export one day's scheduled blocks to Google Calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := app.Config.GCal
			if !gc.Enabled {
				return fmt.Errorf("gcal export is disabled; set gcal.enabled in the config file")
			}

			d, err := parseDayFlag(day)
			if err != nil {
				return err
			}

			ctx := context.Background()
			grid, err := app.Schedule.DayView(ctx, d)
			if err != nil {
				return err
			}

			svc, err := gcal.NewService(ctx, gc.CredentialsFile, gc.TokenFile)
			if err != nil {
				return err
			}
			created, err := gcal.ExportDay(ctx, svc, gc.CalendarID, grid)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d events for %s\n", created, d.Format("Mon Jan 2"))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to export (YYYY-MM-DD, default today)")

	return cmd
}
