package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type ComplaintHandler struct {
	complaintService ports.ComplaintService
	logger           *zap.Logger
}

func NewComplaintHandler(complaints ports.ComplaintService, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaints, logger: logger}
}

func (h *ComplaintHandler) Public(w http.ResponseWriter, r *http.Request) {
	feed, err := h.complaintService.PublicFeed(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// List returns the complaints visible to the caller's role.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaintService.List(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	complaint, err := h.complaintService.Get(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

// Create files a complaint for the caller. A citizen_id in the body is ignored.
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.NewComplaint
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := h.complaintService.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req ports.StatusUpdate
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.complaintService.UpdateStatus(r.Context(), actor(r), id, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK)
}
