package models

import "time"

// Applicant is the profile attached to a non-staff user.
type Applicant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"userId"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	CVPath    string    `json:"cvPath"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Applicant) HasCV() bool {
	return a.CVPath != ""
}
