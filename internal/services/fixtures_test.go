package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"internhub/internal/models"
	"internhub/internal/notifications"
	"internhub/internal/repositories"
	"internhub/internal/testhelpers"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n notifications.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) all() []notifications.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notifications.Notification(nil), d.sent...)
}

type env struct {
	db           *gorm.DB
	users        *repositories.UserRepository
	notifier     *recordingDispatcher
	offers       *OfferService
	applicants   *ApplicantService
	applications *ApplicationService
	interviews   *InterviewService
	dashboard    *DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	logger := zap.NewNop()
	userRepo := &repositories.UserRepository{DB: db}
	applicantRepo := &repositories.ApplicantRepository{DB: db}
	offerRepo := &repositories.OfferRepository{DB: db}
	applicationRepo := &repositories.ApplicationRepository{DB: db}
	interviewRepo := &repositories.InterviewRepository{DB: db}
	notifier := &recordingDispatcher{}

	e := &env{
		db:           db,
		users:        userRepo,
		notifier:     notifier,
		offers:       NewOfferService(offerRepo, logger),
		applicants:   NewApplicantService(applicantRepo, logger, t.TempDir(), 1024),
		applications: NewApplicationService(applicationRepo, applicantRepo, offerRepo, notifier, logger),
		interviews:   NewInterviewService(interviewRepo, applicationRepo, applicantRepo, notifier, logger),
		dashboard:    NewDashboardService(offerRepo, applicationRepo, interviewRepo, applicantRepo),
	}
	e.offers.Now = clock
	e.applications.Now = clock
	e.interviews.Now = clock
	e.dashboard.Now = clock
	return e
}

func (e *env) user(t *testing.T, name string, staff bool) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash", IsStaff: staff}
	if err := e.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// applicantWithCV seeds a non-staff user whose profile has a CV on file.
func (e *env) applicantWithCV(t *testing.T, name string) (*models.User, *models.Applicant) {
	t.Helper()
	user := e.user(t, name, false)
	applicant, err := e.applicants.EnsureApplicant(context.Background(), user)
	if err != nil {
		t.Fatalf("EnsureApplicant: %v", err)
	}
	if err := e.applicants.Applicants.UpdateCVPath(context.Background(), applicant.ID, "cvs/"+name+".pdf"); err != nil {
		t.Fatalf("failed to set cv: %v", err)
	}
	applicant.CVPath = "cvs/" + name + ".pdf"
	return user, applicant
}

func (e *env) offer(t *testing.T, title, department string) *models.Offer {
	t.Helper()
	offer, err := e.offers.Save(context.Background(), OfferInput{
		Title:      title,
		Department: department,
		Duration:   "3 months",
		StartDate:  fixedNow.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("failed to seed offer: %v", err)
	}
	return offer
}

func (e *env) application(t *testing.T, name string, offer *models.Offer) *models.Application {
	t.Helper()
	user, _ := e.applicantWithCV(t, name)
	application, err := e.applications.Apply(context.Background(), user.ID, offer.ID)
	if err != nil {
		t.Fatalf("failed to apply: %v", err)
	}
	return application
}
