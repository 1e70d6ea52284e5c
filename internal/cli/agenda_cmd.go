package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanmarch/tempo/internal/cli/formatter"
)

// newAgendaCmd prints the calendar without entering the TUI, for
// scripting and non-terminal use.
func newAgendaCmd(app *App) *cobra.Command {
	var month, day string
	var detail bool

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the month calendar or one day's schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pp := formatter.NewAgendaPrinter()

			if day != "" {
				d, err := time.ParseInLocation("2006-01-02", day, time.Local)
				if err != nil {
					return fmt.Errorf("invalid day %q: %w", day, err)
				}
				grid, err := app.Schedule.DayView(ctx, d)
				if err != nil {
					return err
				}
				pp.PrintDay(grid)
				return nil
			}

			anchor := time.Now()
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM): %w", month, err)
				}
				anchor = m
			}

			cells, err := app.Schedule.MonthView(ctx, anchor)
			if err != nil {
				return err
			}
			pp.PrintMonth(anchor, cells)
			if detail {
				fmt.Println()
				pp.PrintMonthSummary(cells)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to print (YYYY-MM, default current)")
	cmd.Flags().StringVar(&day, "day", "", "Print one day's schedule instead (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&detail, "detail", false, "Also list each loaded day's items")

	return cmd
}
