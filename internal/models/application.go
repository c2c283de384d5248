package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRefused  ApplicationStatus = "refused"
)

var ApplicationStatuses = []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRefused}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRefused:
		return true
	default:
		return false
	}
}

// Application binds one applicant to one offer. The composite unique index is
// the source of truth for the one-application-per-pair rule.
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ApplicantID uint              `gorm:"not null;uniqueIndex:idx_applicant_offer" json:"applicantId"`
	Applicant   Applicant         `json:"applicant,omitempty"`
	OfferID     uint              `gorm:"not null;uniqueIndex:idx_applicant_offer;index" json:"offerId"`
	Offer       Offer             `json:"offer,omitempty"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AppliedAt   time.Time         `gorm:"not null;index" json:"appliedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Interview   *Interview        `gorm:"constraint:OnDelete:CASCADE" json:"interview,omitempty"`
}
