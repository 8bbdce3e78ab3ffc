package api

import (
	"errors"
	"net/http"

	"github.com/rcollings/duetick-api/internal/api/shared"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/service"
	"github.com/rcollings/duetick-api/internal/store"
)

// respondWithMappedError translates store/service/domain errors to HTTP
// responses. Ownership violations respond 404 rather than 403 so resource
// existence is not leaked across accounts.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotOwned), store.IsNotFoundError(err):
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	case store.IsDuplicateError(err):
		shared.RespondWithError(w, r, http.StatusConflict, "Resource already exists")
	case errors.Is(err, store.ErrInvalidEntity), isDomainValidationError(err):
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, fallback, err)
	}
}

// isDomainValidationError reports whether err is one of the domain entity
// validation sentinels, which are safe to surface verbatim.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTaskTitleEmpty,
		domain.ErrTaskInvalidPriority,
		domain.ErrCategoryNameEmpty,
		domain.ErrSubscriptionEndpointEmpty,
		domain.ErrSubscriptionKeysEmpty,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
