package handler

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/gorilla/mux"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

type weightRequest struct {
	Weight *float64 `json:"weight"`
}

type presetResponse struct {
	Name    string                 `json:"name"`
	Weights domain.CategoryWeights `json:"weights"`
}

type PreferenceHandler struct {
	logger  lager.Logger
	service *service.ScoreService
}

func NewPreferenceHandler(logger lager.Logger, svc *service.ScoreService) *PreferenceHandler {
	return &PreferenceHandler{logger: logger.Session("preference-handler"), service: svc}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	prefs, err := h.service.Preferences(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to get preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// UpdateWeight clamps the weight into the allowed range rather than
// rejecting it. The response carries the snapshot recomputed under the new
// weights.
func (h *PreferenceHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req weightRequest
	if err := decode(r, &req); err != nil || req.Weight == nil {
		writeError(w, http.StatusBadRequest, "weight is required")
		return
	}

	category := domain.Category(mux.Vars(r)["category"])
	update, err := h.service.UpdateWeight(r.Context(), id, category, *req.Weight)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to update weight")
		return
	}

	writeJSON(w, http.StatusOK, update)
}

func (h *PreferenceHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	update, err := h.service.ApplyPreset(r.Context(), id, mux.Vars(r)["name"])
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to apply preset")
		return
	}

	writeJSON(w, http.StatusOK, update)
}

func (h *PreferenceHandler) Presets(w http.ResponseWriter, r *http.Request) {
	names := domain.PresetNames()
	presets := make([]presetResponse, 0, len(names))
	for _, name := range names {
		weights, _ := domain.Preset(name)
		presets = append(presets, presetResponse{Name: name, Weights: weights})
	}
	writeJSON(w, http.StatusOK, presets)
}
