package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/duetick-api/internal/config"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/reminder"
)

// newTestSubscription builds a subscription with a freshly generated browser
// key pair, pointed at the given endpoint.
func newTestSubscription(t *testing.T, endpoint string) *domain.PushSubscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	authSecret := make([]byte, 16)
	_, err = rand.Read(authSecret)
	require.NoError(t, err)

	return &domain.PushSubscription{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(authSecret),
	}
}

func newTestSender(t *testing.T) *Sender {
	t.Helper()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	sender, err := NewSender(config.PushConfig{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subscriber:      "ops@example.com",
	}, nil)
	require.NoError(t, err)
	return sender
}

func TestNewSenderValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSender(config.PushConfig{Subscriber: "ops@example.com"}, nil)
	assert.Error(t, err)

	_, err = NewSender(config.PushConfig{
		VAPIDPublicKey:  "pub",
		VAPIDPrivateKey: "priv",
	}, nil)
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	t.Parallel()

	msg := &reminder.Message{
		Title: "Reminder: water plants",
		Body:  "This task is due! Priority: low",
		Icon:  "/icon-192.png",
		URL:   "/",
	}

	t.Run("accepted delivery", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		sender := newTestSender(t)
		sub := newTestSubscription(t, server.URL)

		err := sender.Send(context.Background(), sub, msg)

		require.NoError(t, err)
		assert.Contains(t, gotAuth, "vapid")
	})

	t.Run("gone endpoint maps to sentinel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusGone)
		}))
		defer server.Close()

		sender := newTestSender(t)
		sub := newTestSubscription(t, server.URL)

		err := sender.Send(context.Background(), sub, msg)

		assert.ErrorIs(t, err, reminder.ErrSubscriptionGone)
	})

	t.Run("server error is a plain failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		sender := newTestSender(t)
		sub := newTestSubscription(t, server.URL)

		err := sender.Send(context.Background(), sub, msg)

		require.Error(t, err)
		assert.NotErrorIs(t, err, reminder.ErrSubscriptionGone)
	})

	t.Run("unreachable endpoint is a plain failure", func(t *testing.T) {
		sender := newTestSender(t)
		sub := newTestSubscription(t, "http://127.0.0.1:1/push")

		err := sender.Send(context.Background(), sub, msg)

		require.Error(t, err)
		assert.NotErrorIs(t, err, reminder.ErrSubscriptionGone)
	})
}
