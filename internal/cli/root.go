package cli

import (
	"github.com/spf13/cobra"

	"github.com/evanmarch/tempo/internal/config"
	"github.com/evanmarch/tempo/internal/schedule"
	"github.com/evanmarch/tempo/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Milestones service.MilestoneService
	Tasks      service.TaskService
	Habits     service.HabitService
	Schedule   service.ScheduleService
	Import     service.ImportService

	Feed   *service.ChangeFeed
	Config config.Config

	// IsInteractive reports whether stdin is a terminal; bare `tempo`
	// launches the TUI only when it is.
	IsInteractive func() bool
}

// ScheduleConfig returns the engine dimensions the views render with.
func (a *App) ScheduleConfig() schedule.Config {
	return a.Config.ScheduleConfig()
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App. Bare `tempo` on a terminal
// starts the TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempo",
		Short: "Calendar-first task and habit planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newTaskCmd(app),
		newHabitCmd(app),
		newProjectCmd(app),
		newMilestoneCmd(app),
		newAgendaCmd(app),
		newImportCmd(app),
		newSyncCmd(app),
	)

	return root
}
