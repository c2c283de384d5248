package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
)

type InterviewHandler struct {
	Interviews *services.InterviewService
	Logger     *zap.Logger
}

func NewInterviewHandler(interviews *services.InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{Interviews: interviews, Logger: logger}
}

type interviewRequest struct {
	ApplicationID uint                   `json:"applicationId"`
	DateTime      time.Time              `json:"dateTime"`
	Type          string                 `json:"type"`
	Location      string                 `json:"location"`
	RemoteLink    string                 `json:"remoteLink"`
	Status        models.InterviewStatus `json:"status"`
	Notes         string                 `json:"notes"`
	Feedback      string                 `json:"feedback"`
}

type interviewStatusRequest struct {
	Status models.InterviewStatus `json:"status"`
}

// venue turns the flat request into the tagged venue. A request naming the
// field of the other venue type is rejected rather than silently cleared.
func (req interviewRequest) venue() (models.Venue, error) {
	kind, ok := models.ParseInterviewType(req.Type)
	if !ok {
		return nil, apperrors.InvalidInput("type must be video or in_person")
	}
	location := strings.TrimSpace(req.Location)
	link := strings.TrimSpace(req.RemoteLink)
	if kind == models.InterviewVideo {
		if location != "" {
			return nil, apperrors.FieldConflict("location must be empty for video interviews")
		}
		return models.Video{RemoteLink: link}, nil
	}
	if link != "" {
		return nil, apperrors.FieldConflict("remote link must be empty for in-person interviews")
	}
	return models.InPerson{Location: location}, nil
}

func (req interviewRequest) toInput() (services.InterviewInput, error) {
	venue, err := req.venue()
	if err != nil {
		return services.InterviewInput{}, err
	}
	return services.InterviewInput{
		ApplicationID: req.ApplicationID,
		DateTime:      req.DateTime,
		Venue:         venue,
		Status:        req.Status,
		Notes:         req.Notes,
		Feedback:      req.Feedback,
	}, nil
}

func (h *InterviewHandler) MyInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	interviews, err := h.Interviews.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interviews)
}

// ListInterviewsHandler serves one page of interviews, latest first.
func (h *InterviewHandler) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	query := r.URL.Query()
	filter := repositories.InterviewFilter{
		Status:     models.InterviewStatus(query.Get("status")),
		Department: query.Get("department"),
		Query:      query.Get("q"),
		Page:       page,
		Limit:      limit,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		badRequest(w, "unknown interview status: "+string(filter.Status))
		return
	}
	if raw := query.Get("type"); raw != "" {
		kind, ok := models.ParseInterviewType(raw)
		if !ok {
			badRequest(w, "type must be video or in_person")
			return
		}
		filter.Type = kind
	}
	if filter.Archived, err = queryBool(r, "archived"); err != nil {
		badRequest(w, err.Error())
		return
	}
	for name, target := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		if raw := query.Get(name); raw != "" {
			if *target, err = parseDate(raw); err != nil {
				badRequest(w, name+" must be YYYY-MM-DD or RFC 3339")
				return
			}
		}
	}

	interviews, total, err := h.Interviews.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.NewPage(interviews, page, limit, total))
}

// UpcomingHandler lists scheduled interviews of the next ?days days (default 7).
func (h *InterviewHandler) UpcomingHandler(w http.ResponseWriter, r *http.Request) {
	window := services.UpcomingWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > 365 {
			badRequest(w, "days must be an integer between 1 and 365")
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}
	interviews, err := h.Interviews.Upcoming(r.Context(), window, 0)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	if req.ApplicationID == 0 {
		badRequest(w, "applicationId is required")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	interview, err := h.Interviews.Schedule(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, interview)
}

func (h *InterviewHandler) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid interview id")
		return
	}
	interview, err := h.Interviews.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) UpdateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid interview id")
		return
	}
	var req interviewRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	interview, err := h.Interviews.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid interview id")
		return
	}
	var req interviewStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	interview, err := h.Interviews.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) ArchiveInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid interview id")
		return
	}
	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil || req.Archived == nil {
		badRequest(w, "archived flag is required")
		return
	}
	interview, err := h.Interviews.SetArchived(r.Context(), id, *req.Archived)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview)
}
