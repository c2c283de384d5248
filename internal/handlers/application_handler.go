package handlers

import (
	"net/http"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
	Logger       *zap.Logger
}

func NewApplicationHandler(applications *services.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{Applications: applications, Logger: logger}
}

type applicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

type applicationStatusResponse struct {
	Application *models.Application `json:"application"`
	Changed     bool                `json:"changed"`
}

func (h *ApplicationHandler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	offerID, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid offer id")
		return
	}
	if user.Privileged() {
		writeError(w, h.Logger, apperrors.Forbidden("staff accounts cannot apply to offers"))
		return
	}

	application, err := h.Applications.Apply(r.Context(), user.ID, offerID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, application)
}

func (h *ApplicationHandler) MyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	applications, err := h.Applications.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, applications)
}

// ListApplicationsHandler serves one page of applications. ?q matches the
// applicant's username or email and the offer title.
func (h *ApplicationHandler) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	query := r.URL.Query()
	filter := repositories.ApplicationFilter{
		Status:     models.ApplicationStatus(query.Get("status")),
		Department: query.Get("department"),
		Query:      query.Get("q"),
		Page:       page,
		Limit:      limit,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		badRequest(w, "unknown application status: "+string(filter.Status))
		return
	}
	if filter.OfferID, err = queryUint(r, "offerId"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if filter.ApplicantID, err = queryUint(r, "applicantId"); err != nil {
		badRequest(w, err.Error())
		return
	}

	applications, total, err := h.Applications.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.NewPage(applications, page, limit, total))
}

func (h *ApplicationHandler) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid application id")
		return
	}
	application, err := h.Applications.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, application)
}

func (h *ApplicationHandler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid application id")
		return
	}
	var req applicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	application, changed, err := h.Applications.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, applicationStatusResponse{Application: application, Changed: changed})
}

func (h *ApplicationHandler) DeleteApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid application id")
		return
	}
	if err := h.Applications.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
