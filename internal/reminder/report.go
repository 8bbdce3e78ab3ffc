package reminder

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the outcome of one delivery attempt to one subscription.
type DeliveryStatus string

// Possible delivery outcomes
const (
	// DeliverySent means the push service accepted the message.
	DeliverySent DeliveryStatus = "sent"

	// DeliveryFailed means delivery failed for a reason other than a gone
	// endpoint; the subscription is kept and the failure recorded.
	DeliveryFailed DeliveryStatus = "failed"

	// DeliveryPruned means the push service reported the endpoint gone and
	// the subscription was deleted.
	DeliveryPruned DeliveryStatus = "pruned"
)

// DeliveryResult records the outcome of one delivery attempt.
type DeliveryResult struct {
	SubscriptionID uuid.UUID      `json:"subscription_id"`
	Status         DeliveryStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
}

// TaskResult groups the delivery outcomes of one dispatched task.
type TaskResult struct {
	TaskID     uuid.UUID        `json:"task_id"`
	Title      string           `json:"title"`
	Deliveries []DeliveryResult `json:"deliveries"`
}

// Report summarizes one dispatch cycle. It is returned to the trigger caller
// as the JSON response body.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	WindowFrom time.Time `json:"window_from"`
	WindowTo   time.Time `json:"window_to"`

	// Candidates is the number of incomplete tasks due within the window.
	Candidates int `json:"candidates"`

	// AlreadySent counts candidates skipped because their idempotency marker
	// existed, either from a prior cycle or a concurrently racing one.
	AlreadySent int `json:"already_sent"`

	// SkippedNoSubscribers counts due tasks whose owner has no registered
	// subscriptions. These are not marked sent and stay eligible while they
	// remain inside the window.
	SkippedNoSubscribers int `json:"skipped_no_subscribers"`

	// Dispatched counts tasks that were claimed and had deliveries attempted.
	Dispatched int `json:"dispatched"`

	// Per-subscription delivery counters across all dispatched tasks.
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Pruned int `json:"pruned"`

	Tasks []TaskResult `json:"tasks"`
}
