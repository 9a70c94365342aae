package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"code.cloudfoundry.org/lager/v3"

	"github.com/yusufkecer/body-score-backend/internal/middleware"
	"github.com/yusufkecer/body-score-backend/internal/repository"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes. Anything
// unrecognised is logged and reported as message with a 500.
func writeServiceError(logger lager.Logger, w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnknownPreset),
		errors.Is(err, service.ErrUnknownMetric),
		errors.Is(err, service.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSuperseded),
		errors.Is(err, repository.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error(message, err)
		writeError(w, http.StatusInternalServerError, message)
	}
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// accountID reads the authenticated account. Routes behind AuthMiddleware
// always carry one.
func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	}
	return id, ok
}
