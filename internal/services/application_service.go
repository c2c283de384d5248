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

type ApplicationService struct {
	Applications *repositories.ApplicationRepository
	Applicants   *repositories.ApplicantRepository
	Offers       *repositories.OfferRepository
	Notifier     notifications.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewApplicationService(
	applications *repositories.ApplicationRepository,
	applicants *repositories.ApplicantRepository,
	offers *repositories.OfferRepository,
	notifier notifications.Dispatcher,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		Applications: applications,
		Applicants:   applicants,
		Offers:       offers,
		Notifier:     notifier,
		Logger:       logger,
		Now:          time.Now,
	}
}

// Apply creates a pending application of the user's profile to the offer.
// The unique index on (applicant_id, offer_id) is authoritative; the lookup
// before insert only gives a friendlier error in the common case.
func (s *ApplicationService) Apply(ctx context.Context, userID, offerID uint) (*models.Application, error) {
	application, err := s.apply(ctx, userID, offerID)
	if err != nil {
		metrics.ApplicationRejected(string(apperrors.KindOf(err)))
		return nil, err
	}
	metrics.ApplicationSubmitted()
	return application, nil
}

func (s *ApplicationService) apply(ctx context.Context, userID, offerID uint) (*models.Application, error) {
	offer, err := s.Offers.GetByID(ctx, offerID)
	if errors.Is(err, repositories.ErrOfferNotFound) {
		return nil, apperrors.NotFound("offer not found", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load offer", err)
	}
	if offer.IsArchived {
		return nil, apperrors.InvalidInput("this offer is archived and no longer accepts applications")
	}

	applicant, err := s.Applicants.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrApplicantNotFound) {
		return nil, apperrors.MissingCV()
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}
	if !applicant.HasCV() {
		return nil, apperrors.MissingCV()
	}

	if _, err := s.Applications.FindByApplicantAndOffer(ctx, applicant.ID, offer.ID); err == nil {
		return nil, apperrors.DuplicateApplication(nil)
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.Internal("failed to check existing applications", err)
	}

	application := &models.Application{
		ApplicantID: applicant.ID,
		OfferID:     offer.ID,
		Status:      models.ApplicationPending,
		AppliedAt:   s.Now().UTC(),
	}
	if err := s.Applications.Create(ctx, application); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.DuplicateApplication(err)
		}
		return nil, apperrors.Internal("failed to create application", err)
	}
	application.Applicant = *applicant
	application.Offer = *offer

	s.Logger.Info("application submitted",
		zap.Uint("application_id", application.ID),
		zap.Uint("applicant_id", applicant.ID),
		zap.Uint("offer_id", offer.ID))
	return application, nil
}

// SetStatus moves the application to status. Setting the current status is a
// no-op reported with changed == false. Approval and refusal notify the
// applicant; notification problems never fail the transition.
func (s *ApplicationService) SetStatus(ctx context.Context, id uint, status models.ApplicationStatus) (*models.Application, bool, error) {
	if !status.IsValid() {
		return nil, false, apperrors.InvalidInput("invalid application status: " + string(status))
	}
	application, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if application.Status == status {
		return application, false, nil
	}

	// the conditional update decides; a concurrent identical transition
	// that won in between leaves this call with changed == false
	changed, err := s.Applications.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, false, apperrors.NotFound("application not found", err)
		}
		return nil, false, apperrors.Internal("failed to update application status", err)
	}
	if !changed {
		application.Status = status
		return application, false, nil
	}
	previous := application.Status
	application.Status = status
	metrics.ApplicationStatusChanged(string(status))

	s.Logger.Info("application status changed",
		zap.Uint("application_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))

	s.notifyStatus(ctx, application)
	return application, true, nil
}

func (s *ApplicationService) notifyStatus(ctx context.Context, application *models.Application) {
	var kind notifications.Kind
	switch application.Status {
	case models.ApplicationApproved:
		kind = notifications.KindApplicationApproved
	case models.ApplicationRefused:
		kind = notifications.KindApplicationRefused
	default:
		return
	}
	user := application.Applicant.User
	s.Notifier.Dispatch(ctx, notifications.New(kind, user.Email, map[string]string{
		"Username":   user.Username,
		"OfferTitle": application.Offer.Title,
		"Department": application.Offer.Department,
	}))
}

func (s *ApplicationService) Get(ctx context.Context, id uint) (*models.Application, error) {
	application, err := s.Applications.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.NotFound("application not found", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load application", err)
	}
	return application, nil
}

// List returns one page of matching applications and the total number of
// matches.
func (s *ApplicationService) List(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, int64, error) {
	total, err := s.Applications.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count applications", err)
	}
	applications, err := s.Applications.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list applications", err)
	}
	return applications, total, nil
}

// ListForUser returns the user's own applications; users without a profile have none.
func (s *ApplicationService) ListForUser(ctx context.Context, userID uint) ([]models.Application, error) {
	applicant, err := s.Applicants.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrApplicantNotFound) {
		return []models.Application{}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}
	applications, err := s.Applications.List(ctx, repositories.ApplicationFilter{ApplicantID: applicant.ID})
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return applications, nil
}

func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	err := s.Applications.Delete(ctx, id)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.NotFound("application not found", err)
	}
	if err != nil {
		return apperrors.Internal("failed to delete application", err)
	}
	s.Logger.Info("application deleted", zap.Uint("application_id", id))
	return nil
}
