package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/importer"
	"github.com/evanmarch/tempo/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	feed     *ChangeFeed
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, feed *ChangeFeed, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		feed:     feed,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	bundle := importer.Convert(schema)
	fields["milestone_count"] = len(bundle.Milestones)
	fields["task_count"] = len(bundle.Tasks)
	fields["habit_count"] = len(bundle.Habits)
	if bundle.Project != nil {
		fields["project"] = bundle.Project.Name
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txHabits := repository.NewSQLiteHabitRepo(tx)

		if bundle.Project != nil {
			if err := txProjects.Create(ctx, bundle.Project); err != nil {
				return fmt.Errorf("creating project: %w", err)
			}
		}

		for _, m := range bundle.Milestones {
			if err := txMilestones.Create(ctx, m); err != nil {
				return fmt.Errorf("creating milestone %q: %w", m.Title, err)
			}
		}

		for _, task := range bundle.Tasks {
			if err := txTasks.Create(ctx, task); err != nil {
				return fmt.Errorf("creating task %q: %w", task.Title, err)
			}
		}

		for _, h := range bundle.Habits {
			if err := txHabits.Create(ctx, h); err != nil {
				return fmt.Errorf("creating habit %q: %w", h.Title, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if bundle.Project != nil {
		s.feed.Publish(ProjectsChanged)
	}
	if len(bundle.Milestones) > 0 {
		s.feed.Publish(MilestonesChanged)
	}
	if len(bundle.Tasks) > 0 {
		s.feed.Publish(TasksChanged)
	}
	if len(bundle.Habits) > 0 {
		s.feed.Publish(HabitsChanged)
	}

	return &ImportResult{
		Project:        bundle.Project,
		MilestoneCount: len(bundle.Milestones),
		TaskCount:      len(bundle.Tasks),
		HabitCount:     len(bundle.Habits),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
