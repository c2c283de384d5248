package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"internhub/internal/apperrors"
	"internhub/internal/models"
)

func TestApplicantService_EnsureApplicantIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.user(t, "alice", false)

	first, err := e.applicants.EnsureApplicant(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.applicants.EnsureApplicant(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same profile, got %d and %d", first.ID, second.ID)
	}
	if first.HasCV() {
		t.Fatalf("new profile must not have a CV")
	}
}

func TestApplicantService_EnsureApplicantSkipsStaff(t *testing.T) {
	e := newEnv(t)
	staff := e.user(t, "admin", true)

	applicant, err := e.applicants.EnsureApplicant(context.Background(), staff)
	if err != nil || applicant != nil {
		t.Fatalf("staff must not get a profile, got %+v, %v", applicant, err)
	}
	if _, err := e.applicants.Profile(context.Background(), staff.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestApplicantService_UploadCV(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.user(t, "alice", false)

	applicant, err := e.applicants.UploadCV(ctx, user, "resume.PDF", strings.NewReader("%PDF-1.4 first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applicant.HasCV() || filepath.Ext(applicant.CVPath) != ".pdf" {
		t.Fatalf("unexpected cv path %q", applicant.CVPath)
	}
	firstPath := applicant.CVPath
	data, err := os.ReadFile(firstPath)
	if err != nil || string(data) != "%PDF-1.4 first" {
		t.Fatalf("unexpected stored file: %q, %v", data, err)
	}

	replaced, err := e.applicants.UploadCV(ctx, user, "resume.docx", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.CVPath == firstPath {
		t.Fatalf("expected a new file name")
	}
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Fatalf("expected previous CV to be removed, got %v", err)
	}

	profile, err := e.applicants.Profile(ctx, user.ID)
	if err != nil || profile.CVPath != replaced.CVPath {
		t.Fatalf("expected stored path %q, got %+v, %v", replaced.CVPath, profile, err)
	}
}

func TestApplicantService_UploadCVRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.user(t, "alice", false)
	staff := e.user(t, "admin", true)

	tests := []struct {
		name     string
		user     *models.User
		filename string
		content  string
		kind     apperrors.Kind
	}{
		{"bad extension", user, "resume.exe", "x", apperrors.KindInvalidInput},
		{"empty file", user, "resume.pdf", "", apperrors.KindInvalidInput},
		{"too large", user, "resume.pdf", strings.Repeat("a", 1025), apperrors.KindInvalidInput},
		{"staff", staff, "resume.pdf", "x", apperrors.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.applicants.UploadCV(ctx, tt.user, tt.filename, strings.NewReader(tt.content)); !apperrors.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	profile, err := e.applicants.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.HasCV() {
		t.Fatalf("rejected uploads must not set a CV")
	}
	entries, _ := os.ReadDir(e.applicants.CVDir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not leave files, found %d", len(entries))
	}
}

func TestApplicantService_CleanupStaffProfiles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, _ = e.applicantWithCV(t, "alice")
	promoted, _ := e.applicantWithCV(t, "bob")
	if err := e.db.Model(promoted).Update("is_staff", true).Error; err != nil {
		t.Fatalf("promote failed: %v", err)
	}

	report, err := e.applicants.CleanupStaffProfiles(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Profiles) != 1 || report.Deleted != 0 {
		t.Fatalf("dry run should only report, got %+v", report)
	}

	report, err = e.applicants.CleanupStaffProfiles(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Deleted != 1 {
		t.Fatalf("expected one deleted profile, got %d", report.Deleted)
	}
	if _, err := e.applicants.Profile(ctx, promoted.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected promoted user's profile to be gone, got %v", err)
	}

	report, err = e.applicants.CleanupStaffProfiles(ctx, false)
	if err != nil || len(report.Profiles) != 0 {
		t.Fatalf("expected nothing left to clean, got %+v, %v", report, err)
	}
}
