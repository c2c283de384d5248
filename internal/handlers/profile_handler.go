package handlers

import (
	"errors"
	"net/http"
	"strings"

	"internhub/internal/apperrors"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// multipart headers and the other form fields
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	Applicants *services.ApplicantService
	Users      *repositories.UserRepository
	Logger     *zap.Logger
}

func NewProfileHandler(applicants *services.ApplicantService, users *repositories.UserRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{Applicants: applicants, Users: users, Logger: logger}
}

// updateProfileRequest holds the editable account fields; omitted fields keep
// their value.
type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (h *ProfileHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	applicant, err := h.Applicants.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, applicant)
}

// UploadCVHandler accepts a multipart form with the file in the "cv" field.
func (h *ProfileHandler) UploadCVHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Applicants.MaxCVBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.Applicants.MaxCVBytes); err != nil {
		badRequest(w, "invalid or oversized multipart form")
		return
	}
	file, header, err := r.FormFile("cv")
	if err != nil {
		badRequest(w, "cv file is required")
		return
	}
	defer file.Close()

	applicant, err := h.Applicants.UploadCV(r.Context(), user, header.Filename, file)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, applicant)
}

// UpdateProfileHandler edits the caller's username and email.
func (h *ProfileHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, h.Logger, apperrors.Unauthorized(err.Error()))
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	if req.Username == nil && req.Email == nil {
		badRequest(w, "nothing to update")
		return
	}

	updated := *user
	if req.Username != nil {
		updated.Username = strings.TrimSpace(*req.Username)
		if updated.Username == "" {
			badRequest(w, "username cannot be empty")
			return
		}
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
		if updated.Email == "" {
			badRequest(w, "email cannot be empty")
			return
		}
	}

	if existing, _ := h.Users.GetUserByUsername(r.Context(), updated.Username); existing != nil && existing.ID != user.ID {
		utils.JSONError(w, http.StatusConflict, "USERNAME_TAKEN", "username taken")
		return
	}
	if existing, _ := h.Users.GetUserByEmail(r.Context(), updated.Email); existing != nil && existing.ID != user.ID {
		utils.JSONError(w, http.StatusConflict, "EMAIL_TAKEN", "email taken")
		return
	}
	if err := h.Users.UpdateAccount(r.Context(), &updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(w, http.StatusConflict, "USER_EXISTS", "username or email taken")
			return
		}
		writeError(w, h.Logger, apperrors.Internal("failed to update profile", err))
		return
	}
	h.Logger.Info("profile updated", zap.Uint("user_id", user.ID), zap.String("username", updated.Username))
	utils.JSON(w, http.StatusOK, &updated)
}
