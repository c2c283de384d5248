package repositories

import (
	"context"
	"errors"

	"internhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrApplicantNotFound = errors.New("applicant not found")

type ApplicantRepository struct {
	DB *gorm.DB
}

func (r *ApplicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(applicant).Error
}

func (r *ApplicantRepository) GetByUserID(ctx context.Context, userID uint) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&applicant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

func (r *ApplicantRepository) UpdateCVPath(ctx context.Context, id uint, path string) error {
	result := r.DB.WithContext(ctx).Model(&models.Applicant{}).Where("id = ?", id).Update("cv_path", path)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicantNotFound
	}
	return nil
}

// ListOwnedByPrivileged returns applicant profiles whose user is staff or superuser.
func (r *ApplicantRepository) ListOwnedByPrivileged(ctx context.Context) ([]models.Applicant, error) {
	applicants := []models.Applicant{}
	privileged := r.DB.Model(&models.User{}).Select("id").Where("is_staff = ? OR is_superuser = ?", true, true)
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("user_id IN (?)", privileged).
		Order("id ASC").
		Find(&applicants).Error
	return applicants, err
}

// DeleteWithApplications removes the given profiles together with their
// applications and interviews in one transaction.
func (r *ApplicantRepository) DeleteWithApplications(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appIDs := tx.Model(&models.Application{}).Select("id").Where("applicant_id IN ?", ids)
		if err := tx.Where("application_id IN (?)", appIDs).Delete(&models.Interview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("applicant_id IN ?", ids).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Applicant{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
