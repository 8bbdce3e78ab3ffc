package reminder

import (
	"context"
	"errors"

	"github.com/rcollings/duetick-api/internal/domain"
)

// ErrSubscriptionGone is the sender's signal that the push service reported
// the subscription endpoint permanently invalid (HTTP 410). The dispatcher
// reacts by deleting the subscription; it must never be retried.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Message is the notification payload delivered to each subscription.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// Sender delivers a message to a single push subscription.
// Implementations must return ErrSubscriptionGone (possibly wrapped) for a
// gone endpoint and any other error for remaining failures.
type Sender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, msg *Message) error
}
