package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rcollings/duetick-api/internal/domain"
)

// Notification payload constants, shared with the client's service worker.
const (
	notificationIcon = "/icon-192.png"
	notificationURL  = "/"
)

// TaskSource provides the dispatcher's candidate query.
type TaskSource interface {
	// ListDueBetween retrieves all incomplete tasks with a due date in
	// [from, to], inclusive.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}

// SubscriptionStore provides the subscription fan-out and pruning operations.
type SubscriptionStore interface {
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.PushSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SentLog provides the idempotency markers.
type SentLog interface {
	FilterSent(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	Record(ctx context.Context, taskID uuid.UUID) (bool, error)
}

// Config holds the dispatcher's tuning knobs.
type Config struct {
	// WindowPast is how far behind now the due window reaches.
	WindowPast time.Duration

	// WindowFuture is the early-warning margin ahead of now.
	WindowFuture time.Duration

	// SendTimeout bounds each individual push delivery call.
	SendTimeout time.Duration

	// MaxConcurrentSends caps the delivery fan-out per task.
	MaxConcurrentSends int
}

// DefaultConfig returns a Config with the standard due window and limits.
func DefaultConfig() Config {
	return Config{
		WindowPast:         60 * time.Minute,
		WindowFuture:       5 * time.Minute,
		SendTimeout:        10 * time.Second,
		MaxConcurrentSends: 8,
	}
}

// Dispatcher runs the due-reminder dispatch cycle. It is stateless between
// cycles; all state lives in the stores.
type Dispatcher struct {
	tasks  TaskSource
	subs   SubscriptionStore
	sent   SentLog
	sender Sender
	config Config
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher with the given collaborators.
// Zero config fields fall back to the defaults.
func NewDispatcher(
	tasks TaskSource,
	subs SubscriptionStore,
	sent SentLog,
	sender Sender,
	config Config,
	logger *slog.Logger,
) *Dispatcher {
	def := DefaultConfig()
	if config.WindowPast <= 0 {
		config.WindowPast = def.WindowPast
	}
	if config.WindowFuture <= 0 {
		config.WindowFuture = def.WindowFuture
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = def.SendTimeout
	}
	if config.MaxConcurrentSends <= 0 {
		config.MaxConcurrentSends = def.MaxConcurrentSends
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		tasks:  tasks,
		subs:   subs,
		sent:   sent,
		sender: sender,
		config: config,
		logger: logger.With(slog.String("component", "reminder_dispatcher")),
	}
}

// RunCycle executes one dispatch cycle at the current wall-clock time.
func (d *Dispatcher) RunCycle(ctx context.Context) (*Report, error) {
	return d.RunCycleAt(ctx, time.Now().UTC())
}

// RunCycleAt executes one dispatch cycle with an explicit notion of now.
// Store access failures abort the cycle and are returned as errors; delivery
// failures never do. Repeated invocation at the same or a later now does not
// re-notify a task whose marker exists.
func (d *Dispatcher) RunCycleAt(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{
		StartedAt:  now,
		WindowFrom: now.Add(-d.config.WindowPast),
		WindowTo:   now.Add(d.config.WindowFuture),
	}

	tasks, err := d.tasks.ListDueBetween(ctx, report.WindowFrom, report.WindowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to select due tasks: %w", err)
	}
	report.Candidates = len(tasks)

	if len(tasks) == 0 {
		d.logger.Debug("dispatch cycle found no due tasks",
			slog.Time("window_from", report.WindowFrom),
			slog.Time("window_to", report.WindowTo))
		return report, nil
	}

	taskIDs := make([]uuid.UUID, len(tasks))
	ownerSet := make(map[uuid.UUID]struct{})
	for i, task := range tasks {
		taskIDs[i] = task.ID
		ownerSet[task.UserID] = struct{}{}
	}

	// Batch pre-filter of already-dispatched tasks. The Record claim below is
	// the authoritative check; this pass just avoids loading subscriptions
	// for tasks that will be skipped anyway.
	sentSet, err := d.sent.FilterSent(ctx, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sent markers: %w", err)
	}

	owners := make([]uuid.UUID, 0, len(ownerSet))
	for id := range ownerSet {
		owners = append(owners, id)
	}
	subsByUser, err := d.subs.ListByUsers(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	for _, task := range tasks {
		if _, ok := sentSet[task.ID]; ok {
			report.AlreadySent++
			continue
		}

		subs := subsByUser[task.UserID]
		if len(subs) == 0 {
			// Not notifiable: left unmarked so a subscription registered
			// later in the window still gets the reminder.
			report.SkippedNoSubscribers++
			continue
		}

		claimed, err := d.sent.Record(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to record sent marker for task %s: %w", task.ID, err)
		}
		if !claimed {
			// Lost the claim to a concurrent cycle.
			report.AlreadySent++
			continue
		}

		result := d.dispatchTask(ctx, task, subs)
		report.Dispatched++
		for _, delivery := range result.Deliveries {
			switch delivery.Status {
			case DeliverySent:
				report.Sent++
			case DeliveryPruned:
				report.Pruned++
			default:
				report.Failed++
			}
		}
		report.Tasks = append(report.Tasks, result)
	}

	d.logger.Info("dispatch cycle completed",
		slog.Int("candidates", report.Candidates),
		slog.Int("dispatched", report.Dispatched),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("pruned", report.Pruned),
		slog.Int("already_sent", report.AlreadySent),
		slog.Int("skipped_no_subscribers", report.SkippedNoSubscribers))

	return report, nil
}

// dispatchTask fans the task's notification out to every subscription.
// Deliveries run concurrently under the configured cap; one subscriber's
// failure never blocks the others.
func (d *Dispatcher) dispatchTask(
	ctx context.Context,
	task *domain.Task,
	subs []*domain.PushSubscription,
) TaskResult {
	msg := &Message{
		Title: "Reminder: " + task.Title,
		Body:  "This task is due! Priority: " + string(task.Priority),
		Icon:  notificationIcon,
		URL:   notificationURL,
	}

	result := TaskResult{
		TaskID:     task.ID,
		Title:      task.Title,
		Deliveries: make([]DeliveryResult, len(subs)),
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.config.MaxConcurrentSends)

	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *domain.PushSubscription) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result.Deliveries[i] = d.deliver(ctx, task, sub, msg)
		}(i, sub)
	}
	wg.Wait()

	return result
}

// deliver attempts one push delivery with a bounded timeout, pruning the
// subscription when the push service reports it gone.
func (d *Dispatcher) deliver(
	ctx context.Context,
	task *domain.Task,
	sub *domain.PushSubscription,
	msg *Message,
) DeliveryResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.config.SendTimeout)
	defer cancel()

	err := d.sender.Send(sendCtx, sub, msg)
	if err == nil {
		return DeliveryResult{SubscriptionID: sub.ID, Status: DeliverySent}
	}

	if isGone(err) {
		if delErr := d.subs.Delete(ctx, sub.ID); delErr != nil {
			d.logger.Error("failed to prune gone subscription",
				slog.String("subscription_id", sub.ID.String()),
				slog.String("error", delErr.Error()))
			return DeliveryResult{
				SubscriptionID: sub.ID,
				Status:         DeliveryFailed,
				Error:          fmt.Sprintf("endpoint gone but prune failed: %v", delErr),
			}
		}
		d.logger.Info("pruned gone subscription",
			slog.String("subscription_id", sub.ID.String()),
			slog.String("user_id", sub.UserID.String()))
		return DeliveryResult{SubscriptionID: sub.ID, Status: DeliveryPruned, Error: err.Error()}
	}

	d.logger.Warn("push delivery failed",
		slog.String("task_id", task.ID.String()),
		slog.String("subscription_id", sub.ID.String()),
		slog.String("error", err.Error()))
	return DeliveryResult{SubscriptionID: sub.ID, Status: DeliveryFailed, Error: err.Error()}
}

func isGone(err error) bool {
	return errors.Is(err, ErrSubscriptionGone)
}
