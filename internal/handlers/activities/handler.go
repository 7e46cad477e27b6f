// Package activities serves the activity listing and membership endpoints.
package activities

import (
	"encoding/json"
	"net/http"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/enrollment"
)

type Handler struct {
	service enrollment.Service
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(service enrollment.Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"handler": "activities"})
	return &Handler{
		service: service,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

// Register mounts the activity routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /activities", h.List)
	mux.HandleFunc("POST /activities/{name}/signup", h.Signup)
	mux.HandleFunc("DELETE /activities/{name}/unregister", h.Unregister)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activities := h.service.ListActivities(r.Context())

	resp := make(map[string]ActivityResponse, len(activities))
	for name, a := range activities {
		resp[name] = toActivityResponse(a)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := parseMembershipRequest(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	result, err := h.service.Signup(r.Context(), req.ActivityName, req.Email)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: result.Message})
}

func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	req, err := parseMembershipRequest(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	result, err := h.service.Unregister(r.Context(), req.ActivityName, req.Email)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: result.Message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
