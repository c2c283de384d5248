package repositories

import (
	"context"
	"errors"
	"strings"

	"internhub/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.firstWhere(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.firstWhere(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// UpdateAccount writes the user's username and email; role flags are never
// touched here.
func (r *UserRepository) UpdateAccount(ctx context.Context, user *models.User) error {
	return r.updateColumns(ctx, user.ID, map[string]any{"username": user.Username, "email": user.Email})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]any{"password_hash": passwordHash})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uint, columns map[string]any) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) firstWhere(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
