package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/reminder"
)

// Static reminder collaborators for exercising the trigger endpoint; the
// dispatch logic itself is covered in the reminder package.
type staticTaskSource struct {
	tasks []*domain.Task
}

func (s *staticTaskSource) ListDueBetween(
	ctx context.Context,
	from, to time.Time,
) ([]*domain.Task, error) {
	return s.tasks, nil
}

type staticSentLog struct{}

func (s *staticSentLog) FilterSent(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	return map[uuid.UUID]struct{}{}, nil
}

func (s *staticSentLog) Record(ctx context.Context, taskID uuid.UUID) (bool, error) {
	return true, nil
}

type noopSender struct{}

func (s *noopSender) Send(
	ctx context.Context,
	sub *domain.PushSubscription,
	msg *reminder.Message,
) error {
	return nil
}

func newTestDispatcher(t *testing.T) *reminder.Dispatcher {
	t.Helper()

	userID := uuid.New()
	due := time.Now().UTC().Add(-5 * time.Minute)
	task, err := domain.NewTask(userID, "Water plants", "", domain.PriorityLow, &due, nil)
	require.NoError(t, err)

	sub, err := domain.NewPushSubscription(userID, "https://push.example.com/x", "k", "a")
	require.NoError(t, err)

	subs := &mockSubscriptionStore{
		ListByUsersFunc: func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.PushSubscription, error) {
			return map[uuid.UUID][]*domain.PushSubscription{userID: {sub}}, nil
		},
	}

	return reminder.NewDispatcher(
		&staticTaskSource{tasks: []*domain.Task{task}},
		subs,
		&staticSentLog{},
		&noopSender{},
		reminder.Config{},
		nil,
	)
}

func TestDispatchRunCycle(t *testing.T) {
	t.Parallel()

	t.Run("open endpoint runs a cycle and returns the report", func(t *testing.T) {
		handler := NewDispatchHandler(newTestDispatcher(t), "", nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/dispatch/run", nil)
		rec := httptest.NewRecorder()

		handler.RunCycle(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var report reminder.Report
		decodeBody(t, rec, &report)
		assert.Equal(t, 1, report.Candidates)
		assert.Equal(t, 1, report.Dispatched)
		assert.Equal(t, 1, report.Sent)
	})

	t.Run("guarded endpoint accepts the configured token", func(t *testing.T) {
		handler := NewDispatchHandler(newTestDispatcher(t), "cron-secret", nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/dispatch/run", nil)
		req.Header.Set("Authorization", "Bearer cron-secret")
		rec := httptest.NewRecorder()

		handler.RunCycle(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("guarded endpoint rejects a missing token", func(t *testing.T) {
		handler := NewDispatchHandler(newTestDispatcher(t), "cron-secret", nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/dispatch/run", nil)
		rec := httptest.NewRecorder()

		handler.RunCycle(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("guarded endpoint rejects a wrong token", func(t *testing.T) {
		handler := NewDispatchHandler(newTestDispatcher(t), "cron-secret", nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/dispatch/run", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()

		handler.RunCycle(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
