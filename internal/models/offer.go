package models

import "time"

// Offer is a posted internship opportunity with a validity window.
type Offer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Department   string    `gorm:"size:200;not null;index" json:"department"`
	Duration     string    `gorm:"size:100;not null" json:"duration"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	StartDate    time.Time `gorm:"not null;index" json:"startDate"`
	EndDate      time.Time `gorm:"not null" json:"endDate"`
	IsArchived   bool      `gorm:"not null;default:false;index" json:"isArchived"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
