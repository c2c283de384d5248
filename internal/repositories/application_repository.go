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

var ErrApplicationNotFound = errors.New("application not found")

// ApplicationFilter narrows application listings. Zero values mean "no
// constraint". Limit is the page size; Page starts at 1.
type ApplicationFilter struct {
	Status      models.ApplicationStatus
	OfferID     uint
	ApplicantID uint
	Department  string
	Query       string
	Page        int
	Limit       int
}

type ApplicationRepository struct {
	DB *gorm.DB
}

func (r *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(application).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application
	err := r.withDetails(r.DB.WithContext(ctx)).First(&application, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// FindByApplicantAndOffer returns ErrApplicationNotFound when the pair has not applied yet.
func (r *ApplicationRepository) FindByApplicantAndOffer(ctx context.Context, applicantID, offerID uint) (*models.Application, error) {
	var application models.Application
	err := r.DB.WithContext(ctx).
		Where("applicant_id = ? AND offer_id = ?", applicantID, offerID).
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// UpdateStatus moves the application to status unless it is already there.
// It reports whether this call changed the row, so concurrent identical
// transitions see exactly one winner.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status <> ?", id, status).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	var existing int64
	if err := r.DB.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing == 0 {
		return false, ErrApplicationNotFound
	}
	return false, nil
}

// List returns applications ordered by applied_at, newest first.
func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := r.filtered(r.DB.WithContext(ctx), filter)
	query = r.withDetails(query).Order("applications.applied_at DESC").Order("applications.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Limit)
		}
	}
	applications := []models.Application{}
	err := query.Find(&applications).Error
	return applications, err
}

// Count returns the number of applications matching filter, ignoring paging.
func (r *ApplicationRepository) Count(ctx context.Context, filter ApplicationFilter) (int64, error) {
	var total int64
	err := r.filtered(r.DB.WithContext(ctx), filter).Count(&total).Error
	return total, err
}

// CountByStatus groups matching applications by status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, filter ApplicationFilter) ([]Count, error) {
	counts := []Count{}
	err := r.filtered(r.DB.WithContext(ctx), filter).
		Select("applications.status AS label, COUNT(*) AS total").
		Group("applications.status").
		Scan(&counts).Error
	return counts, err
}

// Delete removes the application and its interview atomically.
func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&models.Interview{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Application{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrApplicationNotFound
		}
		return nil
	})
}

func (r *ApplicationRepository) filtered(db *gorm.DB, filter ApplicationFilter) *gorm.DB {
	query := db.Model(&models.Application{})
	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}
	if filter.OfferID != 0 {
		query = query.Where("applications.offer_id = ?", filter.OfferID)
	}
	if filter.ApplicantID != 0 {
		query = query.Where("applications.applicant_id = ?", filter.ApplicantID)
	}
	if filter.Department != "" {
		offers := r.DB.Model(&models.Offer{}).Select("id").Where("department = ?", filter.Department)
		query = query.Where("applications.offer_id IN (?)", offers)
	}
	if filter.Query != "" {
		applicants, offers := r.matching(filter.Query)
		query = query.Where("applications.applicant_id IN (?) OR applications.offer_id IN (?)", applicants, offers)
	}
	return query
}

// matching returns subqueries for applicants whose username or email, and
// offers whose title, contain text (case-insensitive).
func (r *ApplicationRepository) matching(text string) (applicants, offers *gorm.DB) {
	like := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	users := r.DB.Model(&models.User{}).Select("id").Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	applicants = r.DB.Model(&models.Applicant{}).Select("id").Where("user_id IN (?)", users)
	offers = r.DB.Model(&models.Offer{}).Select("id").Where("LOWER(title) LIKE ?", like)
	return applicants, offers
}

func (r *ApplicationRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Applicant.User").Preload("Offer").Preload("Interview")
}

func (r *ApplicationRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Application{}).Where("applied_at >= ?", since).Count(&total).Error
	return total, err
}
