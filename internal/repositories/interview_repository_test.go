package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"internhub/internal/models"

	"gorm.io/gorm"
)

func TestInterviewRepository_OnePerApplication(t *testing.T) {
	f := newFixture(t)
	application := f.seedApplication(t, f.seedApplicant(t, "alice"), f.seedOffer(t, "Backend", "IT", baseTime), baseTime)
	f.seedInterview(t, application, baseTime.Add(time.Hour), models.InterviewScheduled)

	second := &models.Interview{ApplicationID: application.ID, DateTime: baseTime.Add(2 * time.Hour), Status: models.InterviewScheduled}
	second.SetVenue(models.InPerson{Location: "HQ"})
	if err := f.interviews.Create(context.Background(), second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestInterviewRepository_UpdateAndArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	application := f.seedApplication(t, f.seedApplicant(t, "alice"), f.seedOffer(t, "Backend", "IT", baseTime), baseTime)
	interview := f.seedInterview(t, application, baseTime.Add(time.Hour), models.InterviewScheduled)

	loaded, err := f.interviews.GetByID(ctx, interview.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Application.Applicant.User.Username != "alice" || loaded.Application.Offer.Title != "Backend" {
		t.Fatalf("expected application details to be preloaded, got %+v", loaded.Application)
	}

	loaded.SetVenue(models.InPerson{Location: "Room 2"})
	loaded.Notes = "bring portfolio"
	if err := f.interviews.Update(ctx, loaded); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, _ := f.interviews.GetByID(ctx, interview.ID)
	if got.Type != models.InterviewInPerson || got.Location != "Room 2" || got.RemoteLink != "" || got.Notes != "bring portfolio" {
		t.Fatalf("unexpected interview after update: %+v", got)
	}

	if err := f.interviews.SetArchived(ctx, interview.ID, true); err != nil {
		t.Fatalf("SetArchived returned error: %v", err)
	}
	got, _ = f.interviews.GetByID(ctx, interview.ID)
	if !got.Archived {
		t.Fatalf("expected archived interview")
	}

	if err := f.interviews.SetArchived(ctx, 999, true); err != ErrInterviewNotFound {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
	if err := f.interviews.Update(ctx, &models.Interview{ID: 999, Status: models.InterviewScheduled}); err != ErrInterviewNotFound {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
	if _, err := f.interviews.GetByID(ctx, 999); err != ErrInterviewNotFound {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
}

func TestInterviewRepository_ListingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedApplicant(t, "alice")
	bob := f.seedApplicant(t, "bob")
	offer := f.seedOffer(t, "Backend", "IT", baseTime)
	other := f.seedOffer(t, "Frontend", "IT", baseTime)

	soon := f.seedInterview(t, f.seedApplication(t, alice, offer, baseTime), baseTime.Add(24*time.Hour), models.InterviewScheduled)
	later := f.seedInterview(t, f.seedApplication(t, bob, offer, baseTime), baseTime.Add(72*time.Hour), models.InterviewScheduled)
	done := f.seedInterview(t, f.seedApplication(t, alice, other, baseTime), baseTime.Add(-24*time.Hour), models.InterviewCompleted)

	all, err := f.interviews.List(ctx, InterviewFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 || all[0].ID != later.ID || all[1].ID != soon.ID || all[2].ID != done.ID {
		t.Fatalf("expected date descending order, got %v", ids(all))
	}

	mine, err := f.interviews.List(ctx, InterviewFilter{ApplicantID: alice.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != soon.ID || mine[1].ID != done.ID {
		t.Fatalf("unexpected applicant interviews: %v", ids(mine))
	}

	if err := f.interviews.SetArchived(ctx, later.ID, true); err != nil {
		t.Fatalf("failed to archive: %v", err)
	}
	upcoming, err := f.interviews.Upcoming(ctx, baseTime, baseTime.Add(7*24*time.Hour), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != soon.ID {
		t.Fatalf("expected only the non-archived scheduled interview, got %v", ids(upcoming))
	}

	counts, err := f.interviews.CountByStatus(ctx, InterviewFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byStatus := map[string]int64{}
	for _, c := range counts {
		byStatus[c.Label] = c.Total
	}
	if byStatus["scheduled"] != 2 || byStatus["completed"] != 1 {
		t.Fatalf("unexpected counts: %v", byStatus)
	}

	times, err := f.interviews.DateTimes(ctx, InterviewFilter{From: baseTime.Add(-48 * time.Hour), To: baseTime.Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 2 || !times[0].Equal(done.DateTime) || !times[1].Equal(soon.DateTime) {
		t.Fatalf("unexpected date times: %v", times)
	}
}

func ids(interviews []models.Interview) []uint {
	out := make([]uint, 0, len(interviews))
	for _, iv := range interviews {
		out = append(out, iv.ID)
	}
	return out
}

func TestInterviewRepository_UpdateKeepsArchiveFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	application := f.seedApplication(t, f.seedApplicant(t, "alice"), f.seedOffer(t, "Backend", "IT", baseTime), baseTime)
	interview := f.seedInterview(t, application, baseTime.Add(time.Hour), models.InterviewScheduled)

	stale, err := f.interviews.GetByID(ctx, interview.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.interviews.SetArchived(ctx, interview.ID, true); err != nil {
		t.Fatalf("SetArchived returned error: %v", err)
	}

	stale.Notes = "edited after archive"
	if err := f.interviews.Update(ctx, stale); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, _ := f.interviews.GetByID(ctx, interview.ID)
	if !got.Archived {
		t.Fatalf("an edit from a stale read must not unarchive the interview")
	}
	if got.Notes != "edited after archive" {
		t.Fatalf("expected notes to be updated, got %q", got.Notes)
	}
}

func TestInterviewRepository_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedApplicant(t, "alice")
	bob := f.seedApplicant(t, "bob")
	backend := f.seedOffer(t, "Backend", "IT", baseTime)
	analyst := f.seedOffer(t, "Analyst", "Finance", baseTime)

	first := f.seedInterview(t, f.seedApplication(t, alice, backend, baseTime), baseTime.Add(24*time.Hour), models.InterviewScheduled)
	second := f.seedInterview(t, f.seedApplication(t, bob, backend, baseTime), baseTime.Add(48*time.Hour), models.InterviewScheduled)
	third := f.seedInterview(t, f.seedApplication(t, alice, analyst, baseTime), baseTime.Add(72*time.Hour), models.InterviewScheduled)

	tests := []struct {
		name    string
		filter  InterviewFilter
		wantIDs []uint
		total   int64
	}{
		{name: "by department", filter: InterviewFilter{Department: "IT"}, wantIDs: []uint{second.ID, first.ID}, total: 2},
		{name: "by username", filter: InterviewFilter{Query: "Alice"}, wantIDs: []uint{third.ID, first.ID}, total: 2},
		{name: "by email", filter: InterviewFilter{Query: "bob@example"}, wantIDs: []uint{second.ID}, total: 1},
		{name: "by offer title", filter: InterviewFilter{Query: "analyst"}, wantIDs: []uint{third.ID}, total: 1},
		{name: "department and query", filter: InterviewFilter{Department: "Finance", Query: "bob"}, wantIDs: []uint{}, total: 0},
		{name: "first page", filter: InterviewFilter{Page: 1, Limit: 2}, wantIDs: []uint{third.ID, second.ID}, total: 3},
		{name: "second page", filter: InterviewFilter{Page: 2, Limit: 2}, wantIDs: []uint{first.ID}, total: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.interviews.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %v, got %v", tt.wantIDs, ids(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Fatalf("expected %v, got %v", tt.wantIDs, ids(got))
				}
			}
			total, err := f.interviews.Count(ctx, tt.filter)
			if err != nil || total != tt.total {
				t.Fatalf("expected total %d, got %d, %v", tt.total, total, err)
			}
		})
	}
}
