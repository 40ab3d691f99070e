// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/swinglabs/fourb/internal/domain/grading"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/profile"
)

type analyzeResponse struct {
	MotorProfile    model.MotorProfile      `json:"motor_profile"`
	Projection      model.CeilingProjection `json:"projection"`
	Tier            grading.Tier            `json:"tier"`
	Recommendations []string                `json:"recommendations"`
}

// AnalyzeHandler handles single-swing analysis requests.
type AnalyzeHandler struct {
	deps Dependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandleAnalyze handles POST /v1/swings/analyze requests. Pure computation
// over the posted metric bundle; nothing is stored.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var bundle profile.MetricBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	motorProfile, projection, recs := h.deps.AnalyzeSwing(r.Context(), bundle)
	writeJSON(w, http.StatusOK, analyzeResponse{
		MotorProfile:    motorProfile,
		Projection:      projection,
		Tier:            grading.ColorTier(float64(projection.Current)),
		Recommendations: recs,
	})
}
