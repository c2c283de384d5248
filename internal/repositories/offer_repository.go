package repositories

import (
	"context"
	"errors"
	"strings"

	"internhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOfferNotFound = errors.New("offer not found")

// OfferFilter narrows offer listings. Zero values mean "no constraint".
type OfferFilter struct {
	Department string
	Duration   string
	Query      string
	Archived   *bool
	Page       int
	PageSize   int
}

type OfferRepository struct {
	DB *gorm.DB
}

func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	return r.DB.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	result := r.DB.WithContext(ctx).Model(offer).Omit(clause.Associations, "created_at").Select("*").Updates(offer)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.DB.WithContext(ctx).First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepository) SetArchived(ctx context.Context, id uint, archived bool) error {
	result := r.DB.WithContext(ctx).Model(&models.Offer{}).Where("id = ?", id).Update("is_archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// List returns one page of offers ordered by start date, newest first, and the
// total number of matching rows.
func (r *OfferRepository) List(ctx context.Context, filter OfferFilter) ([]models.Offer, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Offer{})
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Duration != "" {
		query = query.Where("LOWER(duration) = ?", strings.ToLower(filter.Duration))
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(requirements) LIKE ?", like, like, like)
	}
	if filter.Archived != nil {
		query = query.Where("is_archived = ?", *filter.Archived)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offers := []models.Offer{}
	query = query.Order("start_date DESC").Order("id DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *OfferRepository) Departments(ctx context.Context) ([]string, error) {
	departments := []string{}
	err := r.DB.WithContext(ctx).Model(&models.Offer{}).
		Distinct("department").
		Order("department ASC").
		Pluck("department", &departments).Error
	return departments, err
}

// Count holds one grouped aggregate row.
type Count struct {
	Label string
	Total int64
}

func (r *OfferRepository) CountByDepartment(ctx context.Context) ([]Count, error) {
	counts := []Count{}
	err := r.DB.WithContext(ctx).Model(&models.Offer{}).
		Select("department AS label, COUNT(*) AS total").
		Group("department").
		Order("department ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *OfferRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Offer{}).Count(&total).Error
	return total, err
}
