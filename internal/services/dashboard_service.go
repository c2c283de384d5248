package services

import (
	"context"
	"errors"
	"time"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/repositories"
)

const (
	UpcomingWindow          = 7 * 24 * time.Hour
	recentApplicationsLimit = 10
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type StaffDashboard struct {
	TotalOffers          int64                `json:"totalOffers"`
	TotalApplications    int64                `json:"totalApplications"`
	TotalInterviews      int64                `json:"totalInterviews"`
	ApplicationsLastWeek int64                `json:"applicationsLastWeek"`
	ApplicationsByStatus map[string]int64     `json:"applicationsByStatus"`
	OffersByDepartment   []LabelCount         `json:"offersByDepartment"`
	InterviewsByStatus   map[string]int64     `json:"interviewsByStatus"`
	InterviewsThisMonth  []DayCount           `json:"interviewsThisMonth"`
	UpcomingInterviews   []models.Interview   `json:"upcomingInterviews"`
	RecentApplications   []models.Application `json:"recentApplications"`
}

type ApplicantDashboard struct {
	HasCV                bool                 `json:"hasCv"`
	ApplicationsByStatus map[string]int64     `json:"applicationsByStatus"`
	UpcomingInterviews   []models.Interview   `json:"upcomingInterviews"`
	Applications         []models.Application `json:"applications"`
}

// DashboardService recomputes every aggregate per call; nothing is cached.
type DashboardService struct {
	Offers       *repositories.OfferRepository
	Applications *repositories.ApplicationRepository
	Interviews   *repositories.InterviewRepository
	Applicants   *repositories.ApplicantRepository
	Now          func() time.Time
}

func NewDashboardService(
	offers *repositories.OfferRepository,
	applications *repositories.ApplicationRepository,
	interviews *repositories.InterviewRepository,
	applicants *repositories.ApplicantRepository,
) *DashboardService {
	return &DashboardService{
		Offers:       offers,
		Applications: applications,
		Interviews:   interviews,
		Applicants:   applicants,
		Now:          time.Now,
	}
}

func (s *DashboardService) Staff(ctx context.Context) (*StaffDashboard, error) {
	now := s.Now().UTC()

	totalOffers, err := s.Offers.Count(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count offers", err)
	}
	departments, err := s.Offers.CountByDepartment(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to group offers", err)
	}
	appCounts, err := s.Applications.CountByStatus(ctx, repositories.ApplicationFilter{})
	if err != nil {
		return nil, apperrors.Internal("failed to group applications", err)
	}
	interviewCounts, err := s.Interviews.CountByStatus(ctx, repositories.InterviewFilter{})
	if err != nil {
		return nil, apperrors.Internal("failed to group interviews", err)
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	times, err := s.Interviews.DateTimes(ctx, repositories.InterviewFilter{From: monthStart, To: dateOnly(now).AddDate(0, 0, 1)})
	if err != nil {
		return nil, apperrors.Internal("failed to load interview dates", err)
	}
	upcoming, err := s.Interviews.Upcoming(ctx, now, now.Add(UpcomingWindow), 0)
	if err != nil {
		return nil, apperrors.Internal("failed to list upcoming interviews", err)
	}
	lastWeek, err := s.Applications.CountSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, apperrors.Internal("failed to count recent applications", err)
	}
	recent, err := s.Applications.List(ctx, repositories.ApplicationFilter{Limit: recentApplicationsLimit})
	if err != nil {
		return nil, apperrors.Internal("failed to list recent applications", err)
	}

	byStatus := StatusCounts(appCounts, applicationStatusLabels())
	byInterview := StatusCounts(interviewCounts, interviewStatusLabels())
	return &StaffDashboard{
		TotalOffers:          totalOffers,
		TotalApplications:    sum(byStatus),
		TotalInterviews:      sum(byInterview),
		ApplicationsLastWeek: lastWeek,
		ApplicationsByStatus: byStatus,
		OffersByDepartment:   labelCounts(departments),
		InterviewsByStatus:   byInterview,
		InterviewsThisMonth:  MonthToDateHistogram(times, now),
		UpcomingInterviews:   upcoming,
		RecentApplications:   recent,
	}, nil
}

func (s *DashboardService) Applicant(ctx context.Context, userID uint) (*ApplicantDashboard, error) {
	dashboard := &ApplicantDashboard{
		ApplicationsByStatus: StatusCounts(nil, applicationStatusLabels()),
		UpcomingInterviews:   []models.Interview{},
		Applications:         []models.Application{},
	}
	applicant, err := s.Applicants.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrApplicantNotFound) {
		return dashboard, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load applicant profile", err)
	}
	dashboard.HasCV = applicant.HasCV()

	filter := repositories.ApplicationFilter{ApplicantID: applicant.ID}
	counts, err := s.Applications.CountByStatus(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to group applications", err)
	}
	dashboard.ApplicationsByStatus = StatusCounts(counts, applicationStatusLabels())

	if dashboard.Applications, err = s.Applications.List(ctx, filter); err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	now := s.Now().UTC()
	if dashboard.UpcomingInterviews, err = s.Interviews.Upcoming(ctx, now, now.Add(UpcomingWindow), applicant.ID); err != nil {
		return nil, apperrors.Internal("failed to list upcoming interviews", err)
	}
	return dashboard, nil
}

// StatusCounts turns grouped rows into a map holding every known label,
// zero when absent.
func StatusCounts(rows []repositories.Count, labels []string) map[string]int64 {
	out := make(map[string]int64, len(labels))
	for _, label := range labels {
		out[label] = 0
	}
	for _, row := range rows {
		out[row.Label] += row.Total
	}
	return out
}

// MonthToDateHistogram buckets times by calendar day (UTC) from the first of
// now's month through today, including empty days.
func MonthToDateHistogram(times []time.Time, now time.Time) []DayCount {
	today := dateOnly(now.UTC())
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts := make(map[string]int)
	for _, t := range times {
		day := dateOnly(t.UTC())
		if day.Before(first) || day.After(today) {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}

	out := make([]DayCount, 0, today.Day())
	for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		out = append(out, DayCount{Date: key, Count: counts[key]})
	}
	return out
}

func labelCounts(rows []repositories.Count) []LabelCount {
	out := make([]LabelCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, LabelCount{Label: row.Label, Count: row.Total})
	}
	return out
}

func sum(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func applicationStatusLabels() []string {
	labels := make([]string, 0, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		labels = append(labels, string(s))
	}
	return labels
}

func interviewStatusLabels() []string {
	labels := make([]string, 0, len(models.InterviewStatuses))
	for _, s := range models.InterviewStatuses {
		labels = append(labels, string(s))
	}
	return labels
}
