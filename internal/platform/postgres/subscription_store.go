package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/platform/logger"
	"github.com/rcollings/duetick-api/internal/store"
)

// PostgresSubscriptionStore implements the store.PushSubscriptionStore
// interface using a PostgreSQL database as the storage backend.
type PostgresSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubscriptionStore creates a new PostgreSQL implementation of the
// PushSubscriptionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSubscriptionStore(db store.DBTX, logger *slog.Logger) *PostgresSubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

// Ensure PostgresSubscriptionStore implements store.PushSubscriptionStore interface
var _ store.PushSubscriptionStore = (*PostgresSubscriptionStore)(nil)

// Upsert implements store.PushSubscriptionStore.Upsert
// Re-registering an endpoint for the same user refreshes its keys in place.
func (s *PostgresSubscriptionStore) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sub.Validate(); err != nil {
		log.Warn("subscription validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("subscription_id", sub.ID.String()))
		return err
	}

	query := `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, endpoint)
		DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.UserID,
		sub.Endpoint,
		sub.P256dh,
		sub.Auth,
		sub.CreatedAt,
	)

	if err != nil {
		log.Error("failed to upsert push subscription",
			slog.String("error", err.Error()),
			slog.String("user_id", sub.UserID.String()))
		return MapError(err)
	}

	log.Info("push subscription registered",
		slog.String("subscription_id", sub.ID.String()),
		slog.String("user_id", sub.UserID.String()))
	return nil
}

// ListByUser implements store.PushSubscriptionStore.ListByUser
func (s *PostgresSubscriptionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	return s.list(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = $1
	`, userID)
}

// ListByUsers implements store.PushSubscriptionStore.ListByUsers
// This is the dispatcher's fan-out join: all subscriptions of all task
// owners in one round trip, keyed by user.
func (s *PostgresSubscriptionStore) ListByUsers(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.PushSubscription, error) {
	byUser := make(map[uuid.UUID][]*domain.PushSubscription)
	if len(userIDs) == 0 {
		return byUser, nil
	}

	subs, err := s.list(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = ANY($1::uuid[])
	`, uuidStrings(userIDs))
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
	}
	return byUser, nil
}

// Delete implements store.PushSubscriptionStore.Delete
// Returns store.ErrSubscriptionNotFound if the subscription does not exist.
func (s *PostgresSubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM push_subscriptions WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete push subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", id.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrSubscriptionNotFound
	}

	log.Info("push subscription pruned", slog.String("subscription_id", id.String()))
	return nil
}

// uuidStrings renders IDs as text for array binding; the query side casts
// back to uuid[].
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (s *PostgresSubscriptionStore) list(ctx context.Context, query string, arg any) ([]*domain.PushSubscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to list push subscriptions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var subs []*domain.PushSubscription
	for rows.Next() {
		var sub domain.PushSubscription
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.Endpoint,
			&sub.P256dh,
			&sub.Auth,
			&sub.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return subs, nil
}
