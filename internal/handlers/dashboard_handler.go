package handlers

import (
	"net/http"

	"internhub/internal/apperrors"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
	Logger    *zap.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Logger: logger}
}

func (h *DashboardHandler) StaffDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Dashboard.Staff(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) ApplicantDashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	dashboard, err := h.Dashboard.Applicant(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}
