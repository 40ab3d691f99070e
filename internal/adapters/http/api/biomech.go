// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swinglabs/fourb/internal/domain/biomech"
	"github.com/swinglabs/fourb/internal/domain/model"
)

// biomechRequest mirrors the POST /v1/sessions/{id}/biomech schema.
type biomechRequest struct {
	Samples []model.BiomechanicalSample `json:"samples"`
}

type biomechResponse struct {
	Categories   model.CategoryScores `json:"categories"`
	Categoricals model.Categoricals   `json:"categoricals"`
}

// BiomechHandler handles biomechanical sample batch uploads.
type BiomechHandler struct {
	deps Dependencies
}

// NewBiomechHandler creates a new biomech handler.
func NewBiomechHandler(deps Dependencies) *BiomechHandler {
	return &BiomechHandler{deps: deps}
}

// HandlePostBiomech handles POST /v1/sessions/{id}/biomech requests. The
// aggregation is synchronous; sample batches are small.
func (h *BiomechHandler) HandlePostBiomech(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req biomechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("no samples in batch"))
		return
	}

	scores, cats, err := h.deps.AggregateBiomech(r.Context(), sessionID, req.Samples)
	if err != nil {
		if errors.Is(err, biomech.ErrNoCompletedSamples) {
			writeError(w, http.StatusUnprocessableEntity, "no_completed_samples", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, biomechResponse{Categories: scores, Categoricals: cats})
}
