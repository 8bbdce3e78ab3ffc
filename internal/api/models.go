package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=500"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority"    validate:"required,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Absent fields are left unchanged; the clear flags explicitly unset the
// optional references.
type UpdateTaskRequest struct {
	Title         *string    `json:"title"          validate:"omitempty,min=1,max=500"`
	Description   *string    `json:"description"    validate:"omitempty,max=5000"`
	IsCompleted   *bool      `json:"is_completed"`
	Priority      *string    `json:"priority"       validate:"omitempty,oneof=low medium high urgent"`
	DueDate       *time.Time `json:"due_date"`
	ClearDueDate  bool       `json:"clear_due_date"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Color string `json:"color" validate:"required,max=32"`
}

// SubscriptionKeys carries the encryption keys of a browser push
// subscription, matching the PushSubscription JSON shape browsers produce.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth"   validate:"required"`
}

// RegisterSubscriptionRequest defines the payload for registering a push
// subscription.
type RegisterSubscriptionRequest struct {
	Endpoint string           `json:"endpoint" validate:"required,url"`
	Keys     SubscriptionKeys `json:"keys"     validate:"required"`
}
