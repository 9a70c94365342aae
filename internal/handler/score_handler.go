package handler

import (
	"net/http"
	"strconv"

	"code.cloudfoundry.org/lager/v3"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

const maxHistoryLimit = 100

type previewResponse struct {
	Snapshot domain.ScoreSnapshot `json:"snapshot"`
	Skipped  []domain.Reading     `json:"skipped"`
}

type ScoreHandler struct {
	logger  lager.Logger
	service *service.ScoreService
}

func NewScoreHandler(logger lager.Logger, svc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{logger: logger.Session("score-handler"), service: svc}
}

func (h *ScoreHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Refresh(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to compute score")
		return
	}

	writeJSON(w, http.StatusCreated, snapshot)
}

func (h *ScoreHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req readingsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, skipped, err := h.service.Preview(r.Context(), id, req.Readings)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to preview score")
		return
	}
	if skipped == nil {
		skipped = []domain.Reading{}
	}

	writeJSON(w, http.StatusOK, previewResponse{Snapshot: snapshot, Skipped: skipped})
}

func (h *ScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	snapshots, err := h.service.History(r.Context(), id, limit)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to list scores")
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}
