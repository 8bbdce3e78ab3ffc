package store

import (
	"context"

	"github.com/google/uuid"
)

// SentNotificationStore persists the append-only idempotency markers that
// guarantee at-most-once reminder dispatch per task. Rows are only ever
// inserted; there is no update or delete path.
type SentNotificationStore interface {
	// FilterSent returns the subset of taskIDs that already have a marker.
	// Used as a cheap batch pre-filter before dispatching.
	FilterSent(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)

	// Record writes the marker for a task. The insert is conflict-rejecting:
	// it returns true if this call created the marker, false if one already
	// existed. The boolean is the single point of truth that lets concurrent
	// dispatch cycles race on the same task without duplicate delivery.
	Record(ctx context.Context, taskID uuid.UUID) (bool, error)
}
