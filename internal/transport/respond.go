package transport

import (
	"errors"
	"net/http"
	"strconv"

	"sweet-layers/internal/middleware"
	"sweet-layers/internal/repository"

	"github.com/go-chi/chi/v5"
)

var errInvalidID = errors.New("invalid id")

// parseIDParam reads a positive integer URL parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// respondNotFound answers a missing product or order. The client may retry.
func respondNotFound(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, "product not found", map[string]interface{}{"retryable": true})
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, "order not found", map[string]interface{}{"retryable": true})
	default:
		return false
	}
	return true
}
