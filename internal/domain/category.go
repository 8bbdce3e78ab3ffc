package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category validation errors
var (
	// ErrCategoryIDEmpty is returned when a category ID is empty or nil.
	ErrCategoryIDEmpty = errors.New("category ID cannot be empty")

	// ErrCategoryUserIDEmpty is returned when a category's user ID is empty or nil.
	ErrCategoryUserIDEmpty = errors.New("category user ID cannot be empty")

	// ErrCategoryNameEmpty is returned when a category's name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")
)

// Category is a user-defined label for grouping tasks. Tasks reference a
// category by ID; deleting a category null-references its tasks at the
// storage layer rather than cascading.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a new Category with the given owner, name, and color.
// Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name, color string) (*Category, error) {
	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	return nil
}
