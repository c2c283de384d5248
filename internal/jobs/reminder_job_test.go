package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"internhub/internal/models"
	"internhub/internal/notifications"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/testhelpers"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n notifications.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

// seedInterview stores an interview for a fresh applicant without going
// through validation, so past and terminal rows can be arranged freely.
func seedInterview(t *testing.T, db *gorm.DB, name, email string, at time.Time, status models.InterviewStatus) {
	t.Helper()
	user := models.User{Username: name, Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	applicant := models.Applicant{UserID: user.ID, CVPath: "cv.pdf"}
	if err := db.Omit("User").Create(&applicant).Error; err != nil {
		t.Fatalf("seed applicant: %v", err)
	}
	offer := models.Offer{Title: "Offer " + name, Department: "IT", Duration: "1 month", StartDate: now, EndDate: now.AddDate(0, 1, 0)}
	if err := db.Create(&offer).Error; err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	application := models.Application{ApplicantID: applicant.ID, OfferID: offer.ID, Status: models.ApplicationApproved, AppliedAt: now}
	if err := db.Omit("Applicant", "Offer").Create(&application).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	interview := models.Interview{ApplicationID: application.ID, DateTime: at, Type: models.InterviewVideo, Status: status, RemoteLink: "https://meet/" + name}
	if err := db.Omit("Application").Create(&interview).Error; err != nil {
		t.Fatalf("seed interview: %v", err)
	}
}

func newJob(t *testing.T) (*ReminderJob, *recordingDispatcher, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	logger := zap.NewNop()
	dispatcher := &recordingDispatcher{}
	interviews := services.NewInterviewService(
		&repositories.InterviewRepository{DB: db},
		&repositories.ApplicationRepository{DB: db},
		&repositories.ApplicantRepository{DB: db},
		dispatcher,
		logger,
	)
	interviews.Now = func() time.Time { return now }
	job := NewReminderJob(interviews, dispatcher, logger, &ReminderConfig{Schedule: "0 8 * * *", Enabled: true})
	return job, dispatcher, db
}

func TestRunReminders_NoInterviews(t *testing.T) {
	job, dispatcher, _ := newJob(t)

	sent, err := job.RunReminders(context.Background())
	if err != nil {
		t.Fatalf("RunReminders with no data should not error, got %v", err)
	}
	if sent != 0 || len(dispatcher.sent) != 0 {
		t.Fatalf("expected nothing sent, got %d", sent)
	}
}

func TestRunReminders_OnlyNextDayScheduled(t *testing.T) {
	job, dispatcher, db := newJob(t)
	seedInterview(t, db, "alice", "alice@example.com", now.Add(3*time.Hour), models.InterviewScheduled)
	seedInterview(t, db, "bob", "bob@example.com", now.Add(30*time.Hour), models.InterviewScheduled)
	seedInterview(t, db, "carol", "carol@example.com", now.Add(5*time.Hour), models.InterviewCancelled)
	seedInterview(t, db, "dave", "", now.Add(6*time.Hour), models.InterviewScheduled)

	sent, err := job.RunReminders(context.Background())
	if err != nil {
		t.Fatalf("RunReminders returned error: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected one reminder, got %d", sent)
	}
	n := dispatcher.sent[0]
	if n.Kind != notifications.KindInterviewReminder || n.Recipient != "alice@example.com" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Fields["Time"] != "15:00" || n.Fields["Where"] != "https://meet/alice" {
		t.Fatalf("unexpected fields: %v", n.Fields)
	}
}

func TestStartDisabledAndInvalidSchedule(t *testing.T) {
	job, _, _ := newJob(t)
	job.config.Enabled = false
	if err := job.Start(); err != nil {
		t.Fatalf("disabled job should not error: %v", err)
	}

	job.config.Enabled = true
	job.config.Schedule = "not a schedule"
	if err := job.Start(); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}

	job.config.Schedule = "@every 1h"
	if err := job.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job.Stop()
}
