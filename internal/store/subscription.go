package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
)

// PushSubscriptionStore defines the interface for push subscription persistence.
type PushSubscriptionStore interface {
	// Upsert saves a subscription, replacing the keys of an existing row with
	// the same user and endpoint. Browsers rotate keys on re-subscribe, so
	// registration must be idempotent per device.
	Upsert(ctx context.Context, sub *domain.PushSubscription) error

	// ListByUser retrieves all subscriptions registered by the given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)

	// ListByUsers retrieves the subscriptions of all given users, keyed by
	// user ID. Users without subscriptions are absent from the map.
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.PushSubscription, error)

	// Delete removes a subscription by its ID. Used by the reminder dispatcher
	// to prune endpoints the push service reports gone.
	// Returns ErrSubscriptionNotFound if the subscription does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
