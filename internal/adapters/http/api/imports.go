// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// importRequest mirrors the POST /v1/imports schema. File contents are
// base64-encoded CSV payloads (encoding/json handles []byte transparently).
type importRequest struct {
	ImportID  string `json:"import_id,omitempty"`
	SessionID string `json:"session_id"`
	Files     []struct {
		Name    string `json:"name"`
		Content []byte `json:"content"`
	} `json:"files"`
}

func (r importRequest) validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("missing session_id")
	}
	if len(r.Files) == 0 {
		return errors.New("no files in import")
	}
	for _, f := range r.Files {
		if len(f.Content) == 0 {
			return errors.New("empty file content: " + f.Name)
		}
	}
	return nil
}

type importAckResponse struct {
	Status    string `json:"status"`
	ImportID  string `json:"import_id"`
	Duplicate bool   `json:"duplicate"`
}

// ImportsHandler handles CSV import requests.
type ImportsHandler struct {
	deps Dependencies
}

// NewImportsHandler creates a new imports handler.
func NewImportsHandler(deps Dependencies) *ImportsHandler {
	return &ImportsHandler{deps: deps}
}

// HandlePostImport handles POST /v1/imports requests.
func (h *ImportsHandler) HandlePostImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Client-supplied import IDs make retries idempotent; generate one
	// otherwise.
	importID := strings.TrimSpace(req.ImportID)
	if importID == "" {
		importID = uuid.NewString()
	}

	if h.deps.SeenAndRecord(r.Context(), importID) {
		writeJSON(w, http.StatusOK, importAckResponse{Status: "duplicate", ImportID: importID, Duplicate: true})
		return
	}

	job := model.ImportJob{ImportID: importID, SessionID: req.SessionID}
	for _, f := range req.Files {
		job.Files = append(job.Files, model.ImportFile{Name: f.Name, Content: f.Content})
	}

	if ok := h.deps.EnqueueImport(r.Context(), job); !ok {
		// Roll back the seen mark so the client can retry.
		h.deps.Unrecord(r.Context(), importID)
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, importAckResponse{Status: "accepted", ImportID: importID})
}
