package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"

	"go.uber.org/zap"
)

// OfferInput is a create (ID == 0) or full update of an offer.
type OfferInput struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Department   string     `json:"department"`
	Duration     string     `json:"duration"`
	Requirements string     `json:"requirements"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type OfferService struct {
	Offers *repositories.OfferRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewOfferService(offers *repositories.OfferRepository, logger *zap.Logger) *OfferService {
	return &OfferService{Offers: offers, Logger: logger, Now: time.Now}
}

// Save validates the input, derives the end date and persists the offer.
// Nothing is written when validation fails.
func (s *OfferService) Save(ctx context.Context, in OfferInput) (*models.Offer, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Department = strings.TrimSpace(in.Department)
	in.Duration = strings.TrimSpace(in.Duration)
	switch {
	case in.Title == "":
		return nil, apperrors.InvalidInput("title is required")
	case in.Department == "":
		return nil, apperrors.InvalidInput("department is required")
	case in.Duration == "":
		return nil, apperrors.InvalidInput("duration is required")
	case in.StartDate.IsZero():
		return nil, apperrors.InvalidInput("start date is required")
	}

	days, err := DurationDays(in.Duration)
	if err != nil {
		return nil, err
	}

	start := dateOnly(in.StartDate)
	creating := in.ID == 0
	if creating && start.Before(dateOnly(s.Now())) {
		return nil, apperrors.PastStartDate()
	}

	end := EndDateFor(start, days)
	if in.EndDate != nil && !dateOnly(*in.EndDate).Equal(end) {
		return nil, apperrors.DateMismatch("end date must be " + end.Format("2006-01-02") + " for a duration of " + in.Duration)
	}

	var offer *models.Offer
	if creating {
		offer = &models.Offer{}
	} else {
		offer, err = s.Offers.GetByID(ctx, in.ID)
		if err != nil {
			return nil, s.offerError(in.ID, err)
		}
	}
	offer.Title = in.Title
	offer.Description = strings.TrimSpace(in.Description)
	offer.Department = in.Department
	offer.Duration = in.Duration
	offer.Requirements = strings.TrimSpace(in.Requirements)
	offer.StartDate = start
	offer.EndDate = end

	if creating {
		err = s.Offers.Create(ctx, offer)
	} else {
		err = s.Offers.Update(ctx, offer)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, s.offerError(in.ID, err)
		}
		return nil, apperrors.Internal("failed to save offer", err)
	}

	s.Logger.Info("offer saved",
		zap.Uint("offer_id", offer.ID),
		zap.Bool("created", creating),
		zap.String("end_date", end.Format("2006-01-02")))
	return offer, nil
}

// SetArchived flips the archive flag. Existing applications are untouched.
func (s *OfferService) SetArchived(ctx context.Context, id uint, archived bool) (*models.Offer, error) {
	if err := s.Offers.SetArchived(ctx, id, archived); err != nil {
		return nil, s.offerError(id, err)
	}
	return s.Get(ctx, id)
}

func (s *OfferService) Get(ctx context.Context, id uint) (*models.Offer, error) {
	offer, err := s.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, s.offerError(id, err)
	}
	return offer, nil
}

func (s *OfferService) List(ctx context.Context, filter repositories.OfferFilter) ([]models.Offer, int64, error) {
	offers, total, err := s.Offers.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list offers", err)
	}
	return offers, total, nil
}

func (s *OfferService) Departments(ctx context.Context) ([]string, error) {
	departments, err := s.Offers.Departments(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list departments", err)
	}
	return departments, nil
}

func (s *OfferService) offerError(id uint, err error) error {
	if errors.Is(err, repositories.ErrOfferNotFound) {
		return apperrors.NotFound("offer not found", err)
	}
	return apperrors.Internal("failed to load offer", err)
}
