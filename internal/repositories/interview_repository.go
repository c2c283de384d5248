package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"internhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInterviewNotFound = errors.New("interview not found")

// InterviewFilter narrows interview listings. Query matches the applicant's
// username or email and the offer title. Limit is the page size; Page starts at 1.
type InterviewFilter struct {
	Status      models.InterviewStatus
	Type        models.InterviewType
	Archived    *bool
	ApplicantID uint
	Department  string
	Query       string
	From        time.Time
	To          time.Time
	Page        int
	Limit       int
}

type InterviewRepository struct {
	DB *gorm.DB
}

func (r *InterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(interview).Error
}

// Update writes every editable column of the interview. The archive flag is
// only changed through SetArchived.
func (r *InterviewRepository) Update(ctx context.Context, interview *models.Interview) error {
	result := r.DB.WithContext(ctx).Model(interview).
		Omit(clause.Associations, "created_at", "application_id", "archived").
		Select("*").
		Updates(interview)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

func (r *InterviewRepository) SetArchived(ctx context.Context, id uint, archived bool) error {
	result := r.DB.WithContext(ctx).Model(&models.Interview{}).Where("id = ?", id).Update("archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id uint) (*models.Interview, error) {
	var interview models.Interview
	err := r.withDetails(r.DB.WithContext(ctx)).First(&interview, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// List returns interviews ordered by date, latest first.
func (r *InterviewRepository) List(ctx context.Context, filter InterviewFilter) ([]models.Interview, error) {
	return r.find(ctx, filter, "interviews.date_time DESC")
}

// Upcoming returns non-archived scheduled interviews in [from, to), soonest first.
func (r *InterviewRepository) Upcoming(ctx context.Context, from, to time.Time, applicantID uint) ([]models.Interview, error) {
	archived := false
	return r.find(ctx, InterviewFilter{
		Status:      models.InterviewScheduled,
		Archived:    &archived,
		ApplicantID: applicantID,
		From:        from,
		To:          to,
	}, "interviews.date_time ASC")
}

// Count returns the number of interviews matching filter, ignoring paging.
func (r *InterviewRepository) Count(ctx context.Context, filter InterviewFilter) (int64, error) {
	var total int64
	err := r.filtered(r.DB.WithContext(ctx), filter).Count(&total).Error
	return total, err
}

func (r *InterviewRepository) CountByStatus(ctx context.Context, filter InterviewFilter) ([]Count, error) {
	counts := []Count{}
	err := r.filtered(r.DB.WithContext(ctx), filter).
		Select("interviews.status AS label, COUNT(*) AS total").
		Group("interviews.status").
		Scan(&counts).Error
	return counts, err
}

// DateTimes returns the date_time of every matching interview, for histograms.
func (r *InterviewRepository) DateTimes(ctx context.Context, filter InterviewFilter) ([]time.Time, error) {
	times := []time.Time{}
	err := r.filtered(r.DB.WithContext(ctx), filter).
		Order("interviews.date_time ASC").
		Pluck("interviews.date_time", &times).Error
	return times, err
}

func (r *InterviewRepository) find(ctx context.Context, filter InterviewFilter, order string) ([]models.Interview, error) {
	query := r.withDetails(r.filtered(r.DB.WithContext(ctx), filter)).Order(order).Order("interviews.id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Limit)
		}
	}
	interviews := []models.Interview{}
	err := query.Find(&interviews).Error
	return interviews, err
}

func (r *InterviewRepository) filtered(db *gorm.DB, filter InterviewFilter) *gorm.DB {
	query := db.Model(&models.Interview{})
	if filter.Status != "" {
		query = query.Where("interviews.status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("interviews.type = ?", filter.Type)
	}
	if filter.Archived != nil {
		query = query.Where("interviews.archived = ?", *filter.Archived)
	}
	if filter.ApplicantID != 0 {
		owned := r.DB.Model(&models.Application{}).Select("id").Where("applicant_id = ?", filter.ApplicantID)
		query = query.Where("interviews.application_id IN (?)", owned)
	}
	if filter.Department != "" {
		offers := r.DB.Model(&models.Offer{}).Select("id").Where("department = ?", filter.Department)
		applications := r.DB.Model(&models.Application{}).Select("id").Where("offer_id IN (?)", offers)
		query = query.Where("interviews.application_id IN (?)", applications)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Query)) + "%"
		users := r.DB.Model(&models.User{}).Select("id").Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
		applicants := r.DB.Model(&models.Applicant{}).Select("id").Where("user_id IN (?)", users)
		offers := r.DB.Model(&models.Offer{}).Select("id").Where("LOWER(title) LIKE ?", like)
		applications := r.DB.Model(&models.Application{}).Select("id").
			Where("applicant_id IN (?) OR offer_id IN (?)", applicants, offers)
		query = query.Where("interviews.application_id IN (?)", applications)
	}
	if !filter.From.IsZero() {
		query = query.Where("interviews.date_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("interviews.date_time < ?", filter.To)
	}
	return query
}

func (r *InterviewRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Application.Applicant.User").Preload("Application.Offer")
}
