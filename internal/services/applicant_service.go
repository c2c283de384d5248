package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var allowedCVExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type ApplicantService struct {
	Applicants *repositories.ApplicantRepository
	Logger     *zap.Logger
	CVDir      string
	MaxCVBytes int64
}

const defaultMaxCVBytes = 5 << 20

func NewApplicantService(applicants *repositories.ApplicantRepository, logger *zap.Logger, cvDir string, maxCVBytes int64) *ApplicantService {
	if maxCVBytes <= 0 {
		maxCVBytes = defaultMaxCVBytes
	}
	return &ApplicantService{Applicants: applicants, Logger: logger, CVDir: cvDir, MaxCVBytes: maxCVBytes}
}

// EnsureApplicant returns the user's profile, creating it on first use.
// Staff and superusers never get one; for them it returns (nil, nil).
func (s *ApplicantService) EnsureApplicant(ctx context.Context, user *models.User) (*models.Applicant, error) {
	if user.Privileged() {
		return nil, nil
	}
	applicant, err := s.Applicants.GetByUserID(ctx, user.ID)
	if err == nil {
		return applicant, nil
	}
	if !errors.Is(err, repositories.ErrApplicantNotFound) {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}

	applicant = &models.Applicant{UserID: user.ID}
	if err := s.Applicants.Create(ctx, applicant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// created concurrently
			return s.Profile(ctx, user.ID)
		}
		return nil, apperrors.Internal("failed to create applicant profile", err)
	}
	applicant.User = *user
	s.Logger.Info("applicant profile created", zap.Uint("user_id", user.ID), zap.Uint("applicant_id", applicant.ID))
	return applicant, nil
}

func (s *ApplicantService) Profile(ctx context.Context, userID uint) (*models.Applicant, error) {
	applicant, err := s.Applicants.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrApplicantNotFound) {
		return nil, apperrors.NotFound("applicant profile not found", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}
	return applicant, nil
}

// UploadCV stores the file under a random name and points the profile at it.
// The previous file, if any, is removed afterwards.
func (s *ApplicantService) UploadCV(ctx context.Context, user *models.User, filename string, r io.Reader) (*models.Applicant, error) {
	if user.Privileged() {
		return nil, apperrors.Forbidden("staff accounts do not have an applicant profile")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedCVExtensions[ext] {
		return nil, apperrors.InvalidInput("CV must be a .pdf, .doc or .docx file")
	}

	applicant, err := s.EnsureApplicant(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.CVDir, 0o755); err != nil {
		return nil, apperrors.Internal("failed to prepare CV storage", err)
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.CVDir, name)
	if err := s.writeFile(path, r); err != nil {
		os.Remove(path)
		return nil, err
	}

	if err := s.Applicants.UpdateCVPath(ctx, applicant.ID, path); err != nil {
		os.Remove(path)
		return nil, apperrors.Internal("failed to save CV reference", err)
	}

	previous := applicant.CVPath
	applicant.CVPath = path
	if previous != "" && previous != path {
		if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to remove previous CV", zap.String("path", previous), zap.Error(err))
		}
	}
	s.Logger.Info("cv uploaded", zap.Uint("applicant_id", applicant.ID), zap.String("file", name))
	return applicant, nil
}

func (s *ApplicantService) writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Internal("failed to store CV", err)
	}
	defer f.Close()

	limit := s.MaxCVBytes
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		return apperrors.Internal("failed to store CV", err)
	}
	if n == 0 {
		return apperrors.InvalidInput("CV file is empty")
	}
	if n > limit {
		return apperrors.InvalidInput(fmt.Sprintf("CV must be at most %d bytes", limit))
	}
	return nil
}

// CleanupReport describes profiles attached to staff accounts.
type CleanupReport struct {
	Profiles []models.Applicant
	Deleted  int64
}

// CleanupStaffProfiles finds applicant profiles owned by staff or superusers
// and, unless dryRun is set, deletes them with their applications.
func (s *ApplicantService) CleanupStaffProfiles(ctx context.Context, dryRun bool) (*CleanupReport, error) {
	profiles, err := s.Applicants.ListOwnedByPrivileged(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list staff profiles", err)
	}
	report := &CleanupReport{Profiles: profiles}
	if dryRun || len(profiles) == 0 {
		return report, nil
	}

	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	deleted, err := s.Applicants.DeleteWithApplications(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to delete staff profiles", err)
	}
	report.Deleted = deleted

	for _, p := range profiles {
		if p.CVPath == "" {
			continue
		}
		if err := os.Remove(p.CVPath); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to remove CV of deleted profile", zap.String("path", p.CVPath), zap.Error(err))
		}
	}
	s.Logger.Info("staff applicant profiles deleted", zap.Int64("count", deleted))
	return report, nil
}
