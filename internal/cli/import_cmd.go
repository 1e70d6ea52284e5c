package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import projects, tasks, and habits from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}

			if result.Project != nil {
				fmt.Printf("Imported project %s [%s]\n", result.Project.Name, result.Project.DisplayID())
			}
			fmt.Printf("Imported %d milestones, %d tasks, %d habits\n",
				result.MilestoneCount, result.TaskCount, result.HabitCount)
			return nil
		},
	}
}
