package services

import (
	"context"
	"errors"
	"time"

	"internhub/internal/apperrors"
	"internhub/internal/metrics"
	"internhub/internal/models"
	"internhub/internal/notifications"
	"internhub/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InterviewInput carries a staff edit. Venue is required; an empty Status
// means scheduled on creation and "unchanged" on update.
type InterviewInput struct {
	ApplicationID uint
	DateTime      time.Time
	Venue         models.Venue
	Status        models.InterviewStatus
	Notes         string
	Feedback      string
}

type InterviewService struct {
	Interviews   *repositories.InterviewRepository
	Applications *repositories.ApplicationRepository
	Applicants   *repositories.ApplicantRepository
	Notifier     notifications.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewInterviewService(
	interviews *repositories.InterviewRepository,
	applications *repositories.ApplicationRepository,
	applicants *repositories.ApplicantRepository,
	notifier notifications.Dispatcher,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		Interviews:   interviews,
		Applications: applications,
		Applicants:   applicants,
		Notifier:     notifier,
		Logger:       logger,
		Now:          time.Now,
	}
}

// Schedule attaches a new interview to an application. Each application has at
// most one interview, enforced by a unique index.
func (s *InterviewService) Schedule(ctx context.Context, in InterviewInput) (*models.Interview, error) {
	application, err := s.Applications.GetByID(ctx, in.ApplicationID)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.NotFound("application not found", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load application", err)
	}
	if application.Interview != nil {
		return nil, apperrors.DuplicateInterview(nil)
	}
	if in.Venue == nil {
		return nil, apperrors.InvalidInput("interview type is required")
	}

	status := in.Status
	if status == "" {
		status = models.InterviewScheduled
	}
	interview := &models.Interview{
		ApplicationID: application.ID,
		DateTime:      in.DateTime.UTC(),
		Status:        status,
		Notes:         in.Notes,
		Feedback:      in.Feedback,
	}
	interview.SetVenue(in.Venue)
	if err := interview.Validate(s.Now()); err != nil {
		return nil, err
	}

	if err := s.Interviews.Create(ctx, interview); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.DuplicateInterview(err)
		}
		return nil, apperrors.Internal("failed to create interview", err)
	}
	interview.Application = *application
	interview.Application.Interview = nil
	metrics.InterviewScheduled()

	s.Logger.Info("interview scheduled",
		zap.Uint("interview_id", interview.ID),
		zap.Uint("application_id", application.ID),
		zap.Time("date_time", interview.DateTime))

	if interview.Status == models.InterviewScheduled {
		s.Notifier.Dispatch(ctx, InterviewNotification(notifications.KindInterviewScheduled, interview))
	}
	return interview, nil
}

// Update replaces every editable field. Validation failure leaves the stored
// interview untouched.
func (s *InterviewService) Update(ctx context.Context, id uint, in InterviewInput) (*models.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Venue == nil {
		return nil, apperrors.InvalidInput("interview type is required")
	}
	interview.DateTime = in.DateTime.UTC()
	interview.SetVenue(in.Venue)
	if in.Status != "" {
		interview.Status = in.Status
	}
	interview.Notes = in.Notes
	interview.Feedback = in.Feedback
	return s.save(ctx, interview)
}

func (s *InterviewService) SetStatus(ctx context.Context, id uint, status models.InterviewStatus) (*models.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	interview.Status = status
	return s.save(ctx, interview)
}

// SetArchived only flips the flag; the schedule is not revalidated.
func (s *InterviewService) SetArchived(ctx context.Context, id uint, archived bool) (*models.Interview, error) {
	if err := s.Interviews.SetArchived(ctx, id, archived); err != nil {
		return nil, s.interviewError(err)
	}
	return s.Get(ctx, id)
}

func (s *InterviewService) Get(ctx context.Context, id uint) (*models.Interview, error) {
	interview, err := s.Interviews.GetByID(ctx, id)
	if err != nil {
		return nil, s.interviewError(err)
	}
	return interview, nil
}

// List returns one page of matching interviews and the total number of matches.
func (s *InterviewService) List(ctx context.Context, filter repositories.InterviewFilter) ([]models.Interview, int64, error) {
	total, err := s.Interviews.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count interviews", err)
	}
	interviews, err := s.Interviews.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list interviews", err)
	}
	return interviews, total, nil
}

// Upcoming lists scheduled, non-archived interviews within window from now,
// soonest first. applicantID 0 means every applicant.
func (s *InterviewService) Upcoming(ctx context.Context, window time.Duration, applicantID uint) ([]models.Interview, error) {
	now := s.Now().UTC()
	interviews, err := s.Interviews.Upcoming(ctx, now, now.Add(window), applicantID)
	if err != nil {
		return nil, apperrors.Internal("failed to list upcoming interviews", err)
	}
	return interviews, nil
}

func (s *InterviewService) ListForUser(ctx context.Context, userID uint) ([]models.Interview, error) {
	applicant, err := s.Applicants.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrApplicantNotFound) {
		return []models.Interview{}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}
	interviews, err := s.Interviews.List(ctx, repositories.InterviewFilter{ApplicantID: applicant.ID})
	if err != nil {
		return nil, apperrors.Internal("failed to list interviews", err)
	}
	return interviews, nil
}

func (s *InterviewService) save(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	if err := interview.Validate(s.Now()); err != nil {
		return nil, err
	}
	if err := s.Interviews.Update(ctx, interview); err != nil {
		return nil, s.interviewError(err)
	}
	s.Logger.Info("interview updated",
		zap.Uint("interview_id", interview.ID),
		zap.String("status", string(interview.Status)))
	return interview, nil
}

func (s *InterviewService) interviewError(err error) error {
	if errors.Is(err, repositories.ErrInterviewNotFound) {
		return apperrors.NotFound("interview not found", err)
	}
	return apperrors.Internal("failed to access interview", err)
}

// InterviewNotification builds the message for an interview whose application,
// applicant user and offer are loaded.
func InterviewNotification(kind notifications.Kind, interview *models.Interview) notifications.Notification {
	user := interview.Application.Applicant.User
	var label, where string
	switch venue := interview.Venue().(type) {
	case models.InPerson:
		label, where = "In person", venue.Location
	case models.Video:
		label, where = "Video", venue.RemoteLink
	}
	return notifications.New(kind, user.Email, map[string]string{
		"Username":   user.Username,
		"OfferTitle": interview.Application.Offer.Title,
		"Date":       interview.DateTime.Format("2006-01-02"),
		"Time":       interview.DateTime.Format("15:04"),
		"Type":       label,
		"Where":      where,
	})
}
