package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanmarch/tempo/internal/cli/formatter"
	"github.com/evanmarch/tempo/internal/domain"
)

func newHabitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage recurring habits",
	}

	cmd.AddCommand(
		newHabitAddCmd(app),
		newHabitListCmd(app),
		newHabitCheckCmd(app),
		newHabitUncheckCmd(app),
		newHabitPauseCmd(app),
		newHabitResumeCmd(app),
		newHabitRemoveCmd(app),
	)

	return cmd
}

func newHabitAddCmd(app *App) *cobra.Command {
	var recurrence, weekday, at string
	var duration int

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidRecurrences[recurrence] {
				return fmt.Errorf("invalid recurrence %q (daily, weekdays, weekly)", recurrence)
			}

			h := &domain.Habit{
				Title:       args[0],
				Recurrence:  domain.Recurrence(recurrence),
				DurationMin: duration,
			}

			if at != "" {
				t, err := time.Parse("15:04", at)
				if err != nil {
					return fmt.Errorf("invalid time %q (want HH:MM): %w", at, err)
				}
				h.PreferredHour = t.Hour()
				h.PreferredMinute = t.Minute()
			}
			if h.Recurrence == domain.RecurWeekly {
				wd, err := parseWeekday(weekday)
				if err != nil {
					return err
				}
				h.Weekday = wd
			}

			if err := app.Habits.Create(context.Background(), h); err != nil {
				return err
			}
			fmt.Printf("Created habit %s (%s at %s)\n", h.Title, h.Recurrence,
				formatter.ClockTime(h.PreferredHour, h.PreferredMinute))
			return nil
		},
	}

	cmd.Flags().StringVar(&recurrence, "recurrence", "daily", "daily, weekdays, or weekly")
	cmd.Flags().StringVar(&weekday, "weekday", "monday", "Anchor day for weekly habits")
	cmd.Flags().StringVar(&at, "at", "08:00", "Preferred time of day (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")

	return cmd
}

func newHabitListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			habits, err := app.Habits.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				fmt.Println("No habits.")
				return nil
			}
			fmt.Println(formatter.HabitTable(habits))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include paused habits")
	return cmd
}

func newHabitCheckCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "check HABIT",
		Short: "Check off a habit for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveHabitID(ctx, app, args[0])
			if err != nil {
				return err
			}
			d, err := parseDayFlag(day)
			if err != nil {
				return err
			}
			if err := app.Habits.CheckIn(ctx, id, d); err != nil {
				return err
			}
			fmt.Printf("Checked off for %s\n", d.Format("Mon Jan 2"))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newHabitUncheckCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "uncheck HABIT",
		Short: "Undo a habit check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveHabitID(ctx, app, args[0])
			if err != nil {
				return err
			}
			d, err := parseDayFlag(day)
			if err != nil {
				return err
			}
			return app.Habits.UndoCheckIn(ctx, id, d)
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newHabitPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause HABIT",
		Short: "Pause a habit (no occurrences while paused)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveHabitID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Habits.Pause(ctx, id)
		},
	}
}

func newHabitResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume HABIT",
		Short: "Resume a paused habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveHabitID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Habits.Resume(ctx, id)
		},
	}
}

func newHabitRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm HABIT",
		Short: "Delete a habit and its logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveHabitID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Habits.Delete(ctx, id)
		},
	}
}

func parseWeekday(input string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(input, wd.String()) || strings.EqualFold(input, wd.String()[:3]) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", input)
}

func parseDayFlag(input string) (time.Time, error) {
	if input == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	d, err := time.ParseInLocation("2006-01-02", input, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", input, err)
	}
	return d, nil
}
