package handlers

import (
	"net/http"
	"strings"

	"internhub/internal/models"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
)

type OfferHandler struct {
	Offers *services.OfferService
	Logger *zap.Logger
}

func NewOfferHandler(offers *services.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{Offers: offers, Logger: logger}
}

// offerRequest carries dates as strings so clients may send plain calendar dates.
type offerRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Department   string `json:"department"`
	Duration     string `json:"duration"`
	Requirements string `json:"requirements"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

type archiveRequest struct {
	Archived *bool `json:"archived"`
}

func (req offerRequest) toInput(id uint) (services.OfferInput, string) {
	in := services.OfferInput{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Department:   req.Department,
		Duration:     req.Duration,
		Requirements: req.Requirements,
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return in, "startDate is required"
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return in, "startDate must be YYYY-MM-DD or RFC 3339"
	}
	in.StartDate = start
	if strings.TrimSpace(req.EndDate) != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return in, "endDate must be YYYY-MM-DD or RFC 3339"
		}
		in.EndDate = &end
	}
	return in, ""
}

// ListOffersHandler serves the public catalog. Archived offers are hidden
// unless ?archived=true or ?archived=all is given.
func (h *OfferHandler) ListOffersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	query := r.URL.Query()
	filter := repositories.OfferFilter{
		Department: query.Get("department"),
		Duration:   query.Get("duration"),
		Query:      query.Get("q"),
		Page:       page,
		PageSize:   limit,
	}
	if query.Get("archived") == "" {
		active := false
		filter.Archived = &active
	} else if filter.Archived, err = queryBool(r, "archived"); err != nil {
		badRequest(w, err.Error())
		return
	}

	offers, total, err := h.Offers.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.NewPage(offers, page, limit, total))
}

func (h *OfferHandler) DepartmentsHandler(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Offers.Departments(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if departments == nil {
		departments = []string{}
	}
	utils.JSON(w, http.StatusOK, departments)
}

func (h *OfferHandler) GetOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid offer id")
		return
	}
	offer, err := h.Offers.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, offer)
}

func (h *OfferHandler) CreateOfferHandler(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0)
}

func (h *OfferHandler) UpdateOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid offer id")
		return
	}
	h.save(w, r, id)
}

func (h *OfferHandler) save(w http.ResponseWriter, r *http.Request, id uint) {
	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	in, problem := req.toInput(id)
	if problem != "" {
		badRequest(w, problem)
		return
	}
	offer, err := h.Offers.Save(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	utils.JSON(w, status, offer)
}

func (h *OfferHandler) ArchiveOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid offer id")
		return
	}
	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil || req.Archived == nil {
		badRequest(w, "archived flag is required")
		return
	}
	offer, err := h.Offers.SetArchived(r.Context(), id, *req.Archived)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, offer)
}
