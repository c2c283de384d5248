package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Users      *repositories.UserRepository
	Applicants *services.ApplicantService
	JWTSecret  string
	TokenTTL   time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewAuthHandler(users *repositories.UserRepository, applicants *services.ApplicantService, secret string, ttl time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Users:      users,
		Applicants: applicants,
		JWTSecret:  secret,
		TokenTTL:   ttl,
		Logger:     logger,
		Now:        time.Now,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Token     string            `json:"token"`
	User      *models.User      `json:"user"`
	Applicant *models.Applicant `json:"applicant,omitempty"`
}

type meResponse struct {
	User      *models.User      `json:"user"`
	Applicant *models.Applicant `json:"applicant,omitempty"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		badRequest(w, "username, email and password are required")
		return
	}
	if !utils.IsPasswordValid(req.Password) {
		badRequest(w, utils.PasswordPolicy)
		return
	}

	if existing, _ := h.Users.GetUserByUsername(r.Context(), req.Username); existing != nil {
		utils.JSONError(w, http.StatusConflict, "USERNAME_TAKEN", "username taken")
		return
	}
	if existing, _ := h.Users.GetUserByEmail(r.Context(), req.Email); existing != nil {
		utils.JSONError(w, http.StatusConflict, "EMAIL_TAKEN", "email taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, h.Logger, apperrors.Internal("failed to hash password", err))
		return
	}
	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: string(hash)}
	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(w, http.StatusConflict, "USER_EXISTS", "username or email taken")
			return
		}
		writeError(w, h.Logger, apperrors.Internal("failed to create user", err))
		return
	}

	applicant, err := h.Applicants.EnsureApplicant(r.Context(), user)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	h.Logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	h.respondWithToken(w, http.StatusCreated, user, applicant)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	user, err := h.Users.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), "invalid credentials")
		return
	}

	// profiles of accounts created before registration did this are backfilled here
	applicant, err := h.Applicants.EnsureApplicant(r.Context(), user)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user, applicant)
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), err.Error())
		return
	}
	resp := meResponse{User: user}
	if !user.Privileged() {
		applicant, err := h.Applicants.Profile(r.Context(), user.ID)
		if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
			writeError(w, h.Logger, err)
			return
		}
		resp.Applicant = applicant
	}
	utils.JSON(w, http.StatusOK, resp)
}

// ChangePasswordHandler replaces the caller's password after checking the
// current one. Existing tokens stay valid until they expire.
func (h *AuthHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), err.Error())
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		badRequest(w, "currentPassword and newPassword are required")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), "current password is incorrect")
		return
	}
	if !utils.IsPasswordValid(req.NewPassword) {
		badRequest(w, utils.PasswordPolicy)
		return
	}
	if req.NewPassword == req.CurrentPassword {
		badRequest(w, "new password must differ from the current one")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, h.Logger, apperrors.Internal("failed to hash password", err))
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), user.ID, string(hash)); err != nil {
		writeError(w, h.Logger, apperrors.Internal("failed to update password", err))
		return
	}
	h.Logger.Info("password changed", zap.Uint("user_id", user.ID))
	utils.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *models.User, applicant *models.Applicant) {
	token, err := utils.SignToken(h.JWTSecret, user.ID, user.Username, h.Now(), h.TokenTTL)
	if err != nil {
		writeError(w, h.Logger, apperrors.Internal("failed to sign token", err))
		return
	}
	utils.JSON(w, status, authResponse{Token: token, User: user, Applicant: applicant})
}
