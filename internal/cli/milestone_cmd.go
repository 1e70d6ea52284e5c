package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanmarch/tempo/internal/cli/formatter"
	"github.com/evanmarch/tempo/internal/domain"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage project milestones",
	}

	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneListCmd(app),
		newMilestoneDoneCmd(app),
		newMilestoneRemoveCmd(app),
	)

	return cmd
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var project, start, due string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a milestone at the end of the project's order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			m := &domain.Milestone{
				ProjectID: projectID,
				Title:     args[0],
				Status:    domain.MilestonePending,
			}
			if start != "" {
				d, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				m.StartDate = &d
			}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				m.DueDate = &d
			}

			if err := app.Milestones.Create(ctx, m); err != nil {
				return err
			}
			fmt.Printf("Created milestone %s (#%d)\n", m.Title, m.OrderIndex)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name, ID, or prefix)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's milestones in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			milestones, err := app.Milestones.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(milestones) == 0 {
				fmt.Println("No milestones.")
				return nil
			}
			fmt.Println(formatter.MilestoneTable(milestones))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name, ID, or prefix)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMilestoneDoneCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "done MILESTONE",
		Short: "Mark a milestone done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			id, err := resolveMilestoneID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			return app.Milestones.MarkDone(ctx, id)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name, ID, or prefix)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "rm MILESTONE",
		Short: "Delete a milestone (its tasks become unassigned)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			id, err := resolveMilestoneID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			return app.Milestones.Delete(ctx, id)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name, ID, or prefix)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
