package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/platform/logger"
	"github.com/rcollings/duetick-api/internal/store"
)

// TaskService provides task operations scoped to an owning user. Every
// method takes the requesting user's ID and refuses to touch rows owned by
// anyone else.
type TaskService interface {
	// Create creates a new task for the user. When a category is given it
	// must exist and belong to the same user.
	Create(
		ctx context.Context,
		userID uuid.UUID,
		title, description string,
		priority domain.Priority,
		dueDate *time.Time,
		categoryID *uuid.UUID,
	) (*domain.Task, error)

	// List returns the user's tasks in display order.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update applies a partial update to the user's task.
	// Returns store.ErrTaskNotFound or ErrNotOwned on a bad target.
	Update(ctx context.Context, userID, taskID uuid.UUID, upd store.TaskUpdate) (*domain.Task, error)

	// Delete removes the user's task.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService with the given dependencies.
func NewTaskService(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if categoryStore == nil {
		return nil, fmt.Errorf("category store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		logger:        logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	priority domain.Priority,
	dueDate *time.Time,
	categoryID *uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if categoryID != nil {
		if err := s.checkCategoryOwnership(ctx, userID, *categoryID); err != nil {
			return nil, err
		}
	}

	task, err := domain.NewTask(userID, title, description, priority, dueDate, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.taskStore.ListByUser(ctx, userID)
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	upd store.TaskUpdate,
) (*domain.Task, error) {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return nil, err
	}

	if upd.CategoryID != nil && !upd.ClearCategory {
		if err := s.checkCategoryOwnership(ctx, userID, *upd.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.taskStore.Update(ctx, taskID, upd)
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return err
	}

	return s.taskStore.Delete(ctx, taskID)
}

func (s *taskServiceImpl) checkTaskOwnership(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return ErrNotOwned
	}
	return nil
}

func (s *taskServiceImpl) checkCategoryOwnership(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return ErrNotOwned
	}
	return nil
}
