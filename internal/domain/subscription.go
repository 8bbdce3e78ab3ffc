package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PushSubscription validation errors
var (
	// ErrSubscriptionIDEmpty is returned when a subscription ID is empty or nil.
	ErrSubscriptionIDEmpty = errors.New("subscription ID cannot be empty")

	// ErrSubscriptionUserIDEmpty is returned when a subscription's user ID is empty or nil.
	ErrSubscriptionUserIDEmpty = errors.New("subscription user ID cannot be empty")

	// ErrSubscriptionEndpointEmpty is returned when a subscription's endpoint is empty.
	ErrSubscriptionEndpointEmpty = errors.New("subscription endpoint cannot be empty")

	// ErrSubscriptionKeysEmpty is returned when a subscription is missing its
	// p256dh or auth encryption keys.
	ErrSubscriptionKeysEmpty = errors.New("subscription p256dh and auth keys are required")
)

// PushSubscription represents one browser/device push registration for a
// user. A user may hold several, one per device. Subscriptions are created
// by the client's notification-permission flow and deleted only when the
// push service reports the endpoint gone.
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPushSubscription creates a new PushSubscription for the given user.
// Returns an error if validation fails.
func NewPushSubscription(userID uuid.UUID, endpoint, p256dh, auth string) (*PushSubscription, error) {
	sub := &PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	return sub, nil
}

// Validate checks if the PushSubscription has valid data.
func (s *PushSubscription) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSubscriptionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSubscriptionUserIDEmpty
	}

	if s.Endpoint == "" {
		return ErrSubscriptionEndpointEmpty
	}

	if s.P256dh == "" || s.Auth == "" {
		return ErrSubscriptionKeysEmpty
	}

	return nil
}
