package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type DepartmentHandler struct {
	departmentService ports.DepartmentService
	logger            *zap.Logger
}

func NewDepartmentHandler(departments ports.DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departments, logger: logger}
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.departmentService.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, depts)
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.NewDepartment
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := h.departmentService.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

type AlertHandler struct {
	alertService ports.AlertService
	logger       *zap.Logger
}

func NewAlertHandler(alerts ports.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alertService: alerts, logger: logger}
}

func (h *AlertHandler) Recent(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.Recent(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.NewAlert
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.alertService.Create(r.Context(), actor(r), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated)
}

type LocationHandler struct {
	locationService ports.LocationService
	logger          *zap.Logger
}

func NewLocationHandler(locations ports.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{locationService: locations, logger: logger}
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.NewLocation
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := h.locationService.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.locationService.Delete(r.Context(), actor(r), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK)
}

type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analytics, logger: logger}
}

func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsService.Stats(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.analyticsService.Export(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="complaints.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
