package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"internhub/internal/models"
	"internhub/internal/testhelpers"

	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db           *gorm.DB
	users        *UserRepository
	applicants   *ApplicantRepository
	offers       *OfferRepository
	applications *ApplicationRepository
	interviews   *InterviewRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return &fixture{
		db:           db,
		users:        &UserRepository{DB: db},
		applicants:   &ApplicantRepository{DB: db},
		offers:       &OfferRepository{DB: db},
		applications: &ApplicationRepository{DB: db},
		interviews:   &InterviewRepository{DB: db},
	}
}

func (f *fixture) seedApplicant(t *testing.T, name string) *models.Applicant {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	if err := f.users.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	applicant := &models.Applicant{UserID: user.ID, CVPath: "cvs/" + name + ".pdf"}
	if err := f.applicants.Create(ctx, applicant); err != nil {
		t.Fatalf("failed to seed applicant: %v", err)
	}
	return applicant
}

func (f *fixture) seedOffer(t *testing.T, title, department string, start time.Time) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		Title:      title,
		Department: department,
		Duration:   "3 months",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 89),
	}
	if err := f.offers.Create(context.Background(), offer); err != nil {
		t.Fatalf("failed to seed offer: %v", err)
	}
	return offer
}

func (f *fixture) seedApplication(t *testing.T, applicant *models.Applicant, offer *models.Offer, appliedAt time.Time) *models.Application {
	t.Helper()
	application := &models.Application{
		ApplicantID: applicant.ID,
		OfferID:     offer.ID,
		Status:      models.ApplicationPending,
		AppliedAt:   appliedAt,
	}
	if err := f.applications.Create(context.Background(), application); err != nil {
		t.Fatalf("failed to seed application: %v", err)
	}
	return application
}

func (f *fixture) seedInterview(t *testing.T, application *models.Application, at time.Time, status models.InterviewStatus) *models.Interview {
	t.Helper()
	interview := &models.Interview{
		ApplicationID: application.ID,
		DateTime:      at,
		Status:        status,
	}
	interview.SetVenue(models.Video{RemoteLink: fmt.Sprintf("https://meet.example.com/%d", application.ID)})
	if err := f.interviews.Create(context.Background(), interview); err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}
	return interview
}
