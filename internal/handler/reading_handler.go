package handler

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

type readingsRequest struct {
	Readings []domain.Reading `json:"readings"`
}

type ReadingHandler struct {
	logger  lager.Logger
	service *service.ScoreService
}

func NewReadingHandler(logger lager.Logger, svc *service.ScoreService) *ReadingHandler {
	return &ReadingHandler{logger: logger.Session("reading-handler"), service: svc}
}

func (h *ReadingHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req readingsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.service.AddReadings(r.Context(), id, req.Readings)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to store readings")
		return
	}

	writeJSON(w, http.StatusCreated, readingsRequest{Readings: stored})
}

// Latest lists the most recent reading of every metric id.
func (h *ReadingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	readings, err := h.service.LatestReadings(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to list readings")
		return
	}

	writeJSON(w, http.StatusOK, readingsRequest{Readings: readings})
}
