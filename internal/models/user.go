package models

import (
	"gorm.io/gorm"
)

// User represents a registered account. Staff accounts review applications and
// manage offers; everyone else is an applicant.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsStaff      bool   `gorm:"not null;default:false" json:"isStaff"`
	IsSuperuser  bool   `gorm:"not null;default:false" json:"isSuperuser"`
}

func (u *User) Privileged() bool {
	return u.IsStaff || u.IsSuperuser
}
