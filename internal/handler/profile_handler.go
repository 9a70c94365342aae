package handler

import (
	"net/http"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

const (
	birthDateLayout = "2006-01-02"
	maxHeightMeters = 3.0
)

type profileRequest struct {
	Sex          string   `json:"biological_sex"`
	BirthDate    *string  `json:"birth_date"`
	HeightMeters *float64 `json:"height_meters"`
}

type profileResponse struct {
	Sex          domain.BiologicalSex `json:"biological_sex"`
	BirthDate    *string              `json:"birth_date"`
	HeightMeters *float64             `json:"height_meters"`
	Age          int                  `json:"age"`
}

type ProfileHandler struct {
	logger  lager.Logger
	clock   clock.Clock
	service *service.ScoreService
}

func NewProfileHandler(logger lager.Logger, clk clock.Clock, svc *service.ScoreService) *ProfileHandler {
	return &ProfileHandler{logger: logger.Session("profile-handler"), clock: clk, service: svc}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, err, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, h.response(p))
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &domain.UserProfile{
		AccountID: id,
		Sex:       domain.ParseBiologicalSex(req.Sex),
	}

	if req.BirthDate != nil {
		birth, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
			return
		}
		if birth.After(h.clock.Now()) {
			writeError(w, http.StatusBadRequest, "birth_date is in the future")
			return
		}
		p.BirthDate = &birth
	}

	if req.HeightMeters != nil {
		if *req.HeightMeters <= 0 || *req.HeightMeters > maxHeightMeters {
			writeError(w, http.StatusBadRequest, "height_meters must be between 0 and 3")
			return
		}
		p.HeightMeters = req.HeightMeters
	}

	if err := h.service.UpdateProfile(r.Context(), p); err != nil {
		writeServiceError(h.logger, w, err, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, h.response(p))
}

func (h *ProfileHandler) response(p *domain.UserProfile) profileResponse {
	resp := profileResponse{
		Sex:          p.Sex,
		HeightMeters: p.HeightMeters,
		Age:          p.Profile(h.clock.Now()).Age,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(birthDateLayout)
		resp.BirthDate = &s
	}
	return resp
}
