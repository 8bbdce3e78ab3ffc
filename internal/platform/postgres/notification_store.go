package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/platform/logger"
	"github.com/rcollings/duetick-api/internal/store"
)

// PostgresSentNotificationStore implements the store.SentNotificationStore
// interface using a PostgreSQL database as the storage backend. The backing
// table is append-only; task_id carries a primary key constraint which makes
// Record a conflict-rejecting claim.
type PostgresSentNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSentNotificationStore creates a new PostgreSQL implementation of
// the SentNotificationStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresSentNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresSentNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSentNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "sent_notification_store")),
	}
}

// Ensure PostgresSentNotificationStore implements store.SentNotificationStore interface
var _ store.SentNotificationStore = (*PostgresSentNotificationStore)(nil)

// FilterSent implements store.SentNotificationStore.FilterSent
func (s *PostgresSentNotificationStore) FilterSent(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sent := make(map[uuid.UUID]struct{})
	if len(taskIDs) == 0 {
		return sent, nil
	}

	query := `
		SELECT task_id
		FROM sent_notifications
		WHERE task_id = ANY($1::uuid[])
	`

	rows, err := s.db.QueryContext(ctx, query, uuidStrings(taskIDs))
	if err != nil {
		log.Error("failed to load sent notification markers", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		sent[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return sent, nil
}

// Record implements store.SentNotificationStore.Record
// ON CONFLICT DO NOTHING keeps the marker append-only and makes the row count
// the arbiter between concurrent dispatch cycles.
func (s *PostgresSentNotificationStore) Record(ctx context.Context, taskID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO sent_notifications (task_id, sent_at)
		VALUES ($1, $2)
		ON CONFLICT (task_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, taskID, time.Now().UTC())
	if err != nil {
		log.Error("failed to record sent notification",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	claimed := affected > 0
	if claimed {
		log.Debug("sent notification recorded", slog.String("task_id", taskID.String()))
	}
	return claimed, nil
}
