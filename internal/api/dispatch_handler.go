package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rcollings/duetick-api/internal/api/shared"
	"github.com/rcollings/duetick-api/internal/reminder"
)

// DispatchHandler exposes the reminder dispatcher's trigger endpoint for an
// external scheduler.
type DispatchHandler struct {
	dispatcher   *reminder.Dispatcher
	triggerToken string
	logger       *slog.Logger
}

// NewDispatchHandler creates a new DispatchHandler. triggerToken may be
// empty, in which case the endpoint requires no authentication.
func NewDispatchHandler(
	dispatcher *reminder.Dispatcher,
	triggerToken string,
	logger *slog.Logger,
) *DispatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchHandler{
		dispatcher:   dispatcher,
		triggerToken: triggerToken,
		logger:       logger.With(slog.String("component", "dispatch_handler")),
	}
}

// RunCycle handles POST /internal/dispatch/run.
// Responds 200 with the dispatch report on completion and 500 on a
// cycle-level failure; the scheduler retries naturally on its next tick.
func (h *DispatchHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	if h.triggerToken != "" {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token != h.triggerToken {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid trigger token")
			return
		}
	}

	report, err := h.dispatcher.RunCycle(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Dispatch cycle failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
