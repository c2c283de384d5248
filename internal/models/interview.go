package models

import (
	"strings"
	"time"

	"internhub/internal/apperrors"
)

type InterviewType string

const (
	InterviewVideo    InterviewType = "video"
	InterviewInPerson InterviewType = "in_person"
)

// ParseInterviewType normalises user input. "zoom" is kept as an alias of video.
func ParseInterviewType(value string) (InterviewType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "video", "zoom":
		return InterviewVideo, true
	case "in_person", "in-person", "inperson":
		return InterviewInPerson, true
	default:
		return "", false
	}
}

type InterviewStatus string

const (
	InterviewScheduled  InterviewStatus = "scheduled"
	InterviewInProgress InterviewStatus = "in_progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewCancelled  InterviewStatus = "cancelled"
	InterviewNoShow     InterviewStatus = "no_show"
)

var InterviewStatuses = []InterviewStatus{
	InterviewScheduled,
	InterviewInProgress,
	InterviewCompleted,
	InterviewCancelled,
	InterviewNoShow,
}

func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewScheduled, InterviewInProgress, InterviewCompleted, InterviewCancelled, InterviewNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further automatic transitions leave s.
func (s InterviewStatus) IsTerminal() bool {
	return s == InterviewCompleted || s == InterviewCancelled || s == InterviewNoShow
}

const DefaultCompletedFeedback = "Completed as scheduled."

// Interview is a scheduled evaluation session tied to exactly one application.
type Interview struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"not null;uniqueIndex" json:"applicationId"`
	Application   Application     `json:"application,omitempty"`
	DateTime      time.Time       `gorm:"not null;index" json:"dateTime"`
	Type          InterviewType   `gorm:"size:20;not null" json:"type"`
	Status        InterviewStatus `gorm:"size:20;not null;default:scheduled;index" json:"status"`
	Location      string          `gorm:"size:255" json:"location"`
	RemoteLink    string          `gorm:"size:500" json:"remoteLink"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Feedback      string          `gorm:"type:text" json:"feedback"`
	Archived      bool            `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Venue is where an interview takes place: either Video or InPerson.
type Venue interface {
	interviewType() InterviewType
}

type Video struct {
	RemoteLink string
}

type InPerson struct {
	Location string
}

func (Video) interviewType() InterviewType    { return InterviewVideo }
func (InPerson) interviewType() InterviewType { return InterviewInPerson }

// SetVenue sets the type together with its only meaningful field and clears
// the other one.
func (i *Interview) SetVenue(v Venue) {
	switch venue := v.(type) {
	case Video:
		i.Type = InterviewVideo
		i.RemoteLink = strings.TrimSpace(venue.RemoteLink)
		i.Location = ""
	case InPerson:
		i.Type = InterviewInPerson
		i.Location = strings.TrimSpace(venue.Location)
		i.RemoteLink = ""
	}
}

// Venue returns the typed view of the stored venue fields.
func (i *Interview) Venue() Venue {
	if i.Type == InterviewInPerson {
		return InPerson{Location: i.Location}
	}
	return Video{RemoteLink: i.RemoteLink}
}

// Validate checks the scheduling rules and normalises feedback for completed
// interviews. It must run before every persist.
func (i *Interview) Validate(now time.Time) error {
	if !i.Status.IsValid() {
		return apperrors.InvalidInput("invalid interview status: " + string(i.Status))
	}
	if i.DateTime.IsZero() {
		return apperrors.InvalidSchedule("interview date and time are required")
	}
	if i.DateTime.Before(now) && !i.Status.IsTerminal() {
		return apperrors.InvalidSchedule("interview date cannot be in the past unless it is completed, cancelled or marked as no-show")
	}

	location := strings.TrimSpace(i.Location)
	link := strings.TrimSpace(i.RemoteLink)
	switch i.Type {
	case InterviewVideo:
		if link == "" && i.Status != InterviewCancelled {
			return apperrors.FieldConflict("a remote link is required for video interviews")
		}
		if location != "" {
			return apperrors.FieldConflict("location must be empty for video interviews")
		}
	case InterviewInPerson:
		if location == "" && i.Status != InterviewCancelled {
			return apperrors.FieldConflict("a location is required for in-person interviews")
		}
		if link != "" {
			return apperrors.FieldConflict("remote link must be empty for in-person interviews")
		}
	default:
		return apperrors.InvalidInput("invalid interview type: " + string(i.Type))
	}

	if i.Status == InterviewCompleted && strings.TrimSpace(i.Feedback) == "" {
		i.Feedback = DefaultCompletedFeedback
	}
	return nil
}
