package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/platform/logger"
	"github.com/rcollings/duetick-api/internal/store"
)

// CategoryService provides category operations scoped to an owning user.
type CategoryService interface {
	// Create creates a new category for the user.
	Create(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Category, error)

	// List returns the user's categories, ordered by name.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// Delete removes the user's category. Tasks keep existing with their
	// category reference cleared by the schema.
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewCategoryService creates a new CategoryService with the given dependencies.
func NewCategoryService(categoryStore store.CategoryStore, logger *slog.Logger) (CategoryService, error) {
	if categoryStore == nil {
		return nil, fmt.Errorf("category store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &categoryServiceImpl{
		categoryStore: categoryStore,
		logger:        logger.With(slog.String("component", "category_service")),
	}, nil
}

// Create implements CategoryService.Create
func (s *categoryServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	category, err := domain.NewCategory(userID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return category, nil
}

// List implements CategoryService.List
func (s *categoryServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryStore.ListByUser(ctx, userID)
}

// Delete implements CategoryService.Delete
func (s *categoryServiceImpl) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return ErrNotOwned
	}

	return s.categoryStore.Delete(ctx, categoryID)
}
