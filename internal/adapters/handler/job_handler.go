package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type JobHandler struct {
	jobService ports.JobService
	logger     *zap.Logger
}

func NewJobHandler(jobs ports.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobService: jobs, logger: logger}
}

type ApplyRequest struct {
	ResumeURL string `json:"resume_url" validate:"required,max=500"`
}

type ReviewRequest struct {
	Status domain.ApplicationStatus `json:"status" validate:"required"`
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.NewJob
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.jobService.Create(r.Context(), actor(r), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated)
}

func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req ApplyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := h.jobService.Apply(r.Context(), actor(r), jobID, req.ResumeURL)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// Application answers null when the caller has not applied.
func (h *JobHandler) Application(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	app, err := h.jobService.Application(r.Context(), actor(r), jobID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *JobHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.jobService.MyApplications(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *JobHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	apps, err := h.jobService.Applicants(r.Context(), actor(r), jobID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *JobHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req ReviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.jobService.ReviewApplication(r.Context(), actor(r), id, req.Status); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK)
}
