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

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
		newTaskReopenCmd(app),
		newTaskRescheduleCmd(app),
		newTaskUnscheduleCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, milestone, due, start, priority, notes string
	var duration int

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t := &domain.Task{
				Title:       args[0],
				Notes:       notes,
				Priority:    domain.PriorityMedium,
				Status:      domain.TaskTodo,
				DurationMin: duration,
			}

			if priority != "" {
				if !domain.ValidPriorities[priority] {
					return fmt.Errorf("invalid priority %q (low, medium, high, urgent)", priority)
				}
				t.Priority = domain.Priority(priority)
			}
			if project != "" {
				id, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				t.ProjectID = id
			}
			if milestone != "" {
				if t.ProjectID == "" {
					return fmt.Errorf("--milestone requires --project")
				}
				id, err := resolveMilestoneID(ctx, app, t.ProjectID, milestone)
				if err != nil {
					return err
				}
				t.MilestoneID = id
			}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				t.DueDate = &d
			}
			if start != "" {
				s, err := parseStartTime(start)
				if err != nil {
					return err
				}
				t.ScheduledStart = &s
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Printf("Created task %s [%s]\n", t.Title, t.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name, ID, or prefix)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone within the project")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Scheduled start (YYYY-MM-DD HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes (default 30 when scheduled)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tasks []*domain.Task
			var err error
			if project != "" {
				projectID, rerr := resolveProjectID(ctx, app, project)
				if rerr != nil {
					return rerr
				}
				tasks, err = app.Tasks.ListByProject(ctx, projectID)
			} else {
				tasks, err = app.Tasks.List(ctx, all)
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			names, err := projectNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Println(formatter.TaskTable(tasks, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived tasks")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done TASK",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.MarkDone(ctx, id); err != nil {
				return err
			}
			fmt.Println("Done.")
			return nil
		},
	}
}

func newTaskReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen TASK",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Tasks.Reopen(ctx, id)
		},
	}
}

func newTaskRescheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule TASK START",
		Short: "Move a task's scheduled start",
		Long:  `Move a task's scheduled start. START is "YYYY-MM-DD HH:MM" or "HH:MM" for today.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			start, err := parseStartTime(args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.Schedule(ctx, id, start); err != nil {
				return err
			}
			fmt.Printf("Scheduled for %s\n", start.Format("Mon Jan 2 15:04"))
			return nil
		},
	}
}

func newTaskUnscheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule TASK",
		Short: "Clear a task's scheduled start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Tasks.Unschedule(ctx, id)
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Tasks.Delete(ctx, id)
		},
	}
}

// parseStartTime accepts "YYYY-MM-DD HH:MM" or a bare "HH:MM" meaning
// today at that time.
func parseStartTime(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", input, time.Local); err == nil {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf(`invalid start %q (want "YYYY-MM-DD HH:MM" or "HH:MM")`, input)
}

// projectNames maps project IDs to names for list rendering.
func projectNames(ctx context.Context, app *App) (map[string]string, error) {
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
