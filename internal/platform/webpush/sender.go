// Package webpush delivers reminder notifications to browser push services
// using VAPID-signed Web Push requests.
package webpush

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rcollings/duetick-api/internal/config"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/reminder"
)

// messageTTL is how long (seconds) the push service may hold an undelivered
// message. Reminders are time-sensitive; an hour matches the catch-up side
// of the due window.
const messageTTL = 3600

// Sender implements reminder.Sender over the Web Push protocol.
type Sender struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
	client          *http.Client
	logger          *slog.Logger
}

// Ensure Sender implements reminder.Sender interface
var _ reminder.Sender = (*Sender)(nil)

// NewSender creates a web-push Sender from the push configuration.
// If logger is nil, a default logger will be used.
func NewSender(cfg config.PushConfig, logger *slog.Logger) (*Sender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("VAPID key pair is required")
	}
	if cfg.Subscriber == "" {
		return nil, fmt.Errorf("push subscriber contact is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sender{
		vapidPublicKey:  cfg.VAPIDPublicKey,
		vapidPrivateKey: cfg.VAPIDPrivateKey,
		subscriber:      "mailto:" + cfg.Subscriber,
		client:          &http.Client{},
		logger:          logger.With(slog.String("component", "webpush_sender")),
	}, nil
}

// Send implements reminder.Sender.Send
// It encrypts and posts the payload to the subscription's endpoint. A 410
// response maps to reminder.ErrSubscriptionGone; any other non-success
// status or transport failure is returned as a plain error.
func (s *Sender) Send(ctx context.Context, sub *domain.PushSubscription, msg *reminder.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             messageTTL,
	})
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		s.logger.Debug("push delivered",
			slog.String("subscription_id", sub.ID.String()),
			slog.Int("status", resp.StatusCode))
		return nil
	case resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: push service returned 410", reminder.ErrSubscriptionGone)
	default:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
}
