package api

import (
	"log/slog"
	"net/http"

	"github.com/rcollings/duetick-api/internal/api/middleware"
	"github.com/rcollings/duetick-api/internal/api/shared"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/store"
)

// SubscriptionHandler handles push subscription registration requests.
type SubscriptionHandler struct {
	subscriptionStore store.PushSubscriptionStore
	logger            *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler with the given
// dependencies.
func NewSubscriptionHandler(
	subscriptionStore store.PushSubscriptionStore,
	logger *slog.Logger,
) *SubscriptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionHandler{
		subscriptionStore: subscriptionStore,
		logger:            logger.With(slog.String("component", "subscription_handler")),
	}
}

// RegisterSubscription handles PUT /push-subscriptions.
// Registration is an upsert: re-registering the same device endpoint
// refreshes its encryption keys.
func (h *SubscriptionHandler) RegisterSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req RegisterSubscriptionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sub, err := domain.NewPushSubscription(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid subscription data: "+err.Error())
		return
	}

	if err := h.subscriptionStore.Upsert(r.Context(), sub); err != nil {
		respondWithMappedError(w, r, err, "Failed to register subscription")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sub)
}
