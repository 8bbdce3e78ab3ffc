package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
)

// TaskUpdate carries the mutable fields of a task for partial updates.
// Nil pointer fields are left unchanged; ClearDueDate and ClearCategory
// distinguish "unset the value" from "leave it alone".
type TaskUpdate struct {
	Title         *string
	Description   *string
	IsCompleted   *bool
	Priority      *domain.Priority
	DueDate       *time.Time
	ClearDueDate  bool
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the referenced category does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves all tasks owned by the given user, ordered with
	// incomplete tasks first, then by due date ascending, then most recently
	// created first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update applies the non-nil fields of upd to the task with the given ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, upd TaskUpdate) (*domain.Task, error)

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDueBetween retrieves all incomplete tasks whose due date falls within
	// [from, to], inclusive on both ends. Tasks without a due date are never
	// returned. This is the reminder dispatcher's candidate query.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}
