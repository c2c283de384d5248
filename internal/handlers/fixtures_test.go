package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"internhub/internal/middleware"
	"internhub/internal/models"
	"internhub/internal/notifications"
	"internhub/internal/repositories"
	"internhub/internal/services"
	"internhub/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n notifications.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) kinds() []notifications.Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	var kinds []notifications.Kind
	for _, n := range d.sent {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

type testEnv struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	notifier *recordingDispatcher
	auth     *AuthHandler
	router   *chi.Mux
}

// newTestEnv wires every handler against an in-memory database behind the same
// route layout the server uses.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	logger := zap.NewNop()
	userRepo := &repositories.UserRepository{DB: db}
	applicantRepo := &repositories.ApplicantRepository{DB: db}
	offerRepo := &repositories.OfferRepository{DB: db}
	applicationRepo := &repositories.ApplicationRepository{DB: db}
	interviewRepo := &repositories.InterviewRepository{DB: db}
	notifier := &recordingDispatcher{}

	applicants := services.NewApplicantService(applicantRepo, logger, t.TempDir(), 1<<16)
	offers := services.NewOfferService(offerRepo, logger)
	applications := services.NewApplicationService(applicationRepo, applicantRepo, offerRepo, notifier, logger)
	interviews := services.NewInterviewService(interviewRepo, applicationRepo, applicantRepo, notifier, logger)
	dashboard := services.NewDashboardService(offerRepo, applicationRepo, interviewRepo, applicantRepo)

	authHandler := NewAuthHandler(userRepo, applicants, testSecret, time.Hour, logger)
	offerHandler := NewOfferHandler(offers, logger)
	profileHandler := NewProfileHandler(applicants, userRepo, logger)
	applicationHandler := NewApplicationHandler(applications, logger)
	interviewHandler := NewInterviewHandler(interviews, logger)
	dashboardHandler := NewDashboardHandler(dashboard, logger)
	healthHandler := NewHealthHandler(db)

	auth := middleware.Authenticate(testSecret, userRepo)
	staff := func(r chi.Router) chi.Router { return r.With(auth, middleware.RequireStaff) }

	r := chi.NewRouter()
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Post("/auth/register", authHandler.RegisterHandler)
	r.Post("/auth/login", authHandler.LoginHandler)
	r.With(auth).Get("/auth/me", authHandler.MeHandler)
	r.With(auth).Put("/auth/password", authHandler.ChangePasswordHandler)

	r.Get("/offers", offerHandler.ListOffersHandler)
	r.Get("/offers/departments", offerHandler.DepartmentsHandler)
	r.Get("/offers/{id}", offerHandler.GetOfferHandler)
	staff(r).Post("/offers", offerHandler.CreateOfferHandler)
	staff(r).Put("/offers/{id}", offerHandler.UpdateOfferHandler)
	staff(r).Patch("/offers/{id}/archive", offerHandler.ArchiveOfferHandler)
	r.With(auth).Post("/offers/{id}/apply", applicationHandler.ApplyHandler)

	r.With(auth).Get("/profile", profileHandler.GetProfileHandler)
	r.With(auth).Put("/profile", profileHandler.UpdateProfileHandler)
	r.With(auth).Post("/profile/cv", profileHandler.UploadCVHandler)

	r.With(auth).Get("/applications/mine", applicationHandler.MyApplicationsHandler)
	staff(r).Get("/applications", applicationHandler.ListApplicationsHandler)
	staff(r).Get("/applications/{id}", applicationHandler.GetApplicationHandler)
	staff(r).Patch("/applications/{id}/status", applicationHandler.SetStatusHandler)
	staff(r).Delete("/applications/{id}", applicationHandler.DeleteApplicationHandler)

	r.With(auth).Get("/interviews/mine", interviewHandler.MyInterviewsHandler)
	staff(r).Get("/interviews", interviewHandler.ListInterviewsHandler)
	staff(r).Get("/interviews/upcoming", interviewHandler.UpcomingHandler)
	staff(r).Post("/interviews", interviewHandler.CreateInterviewHandler)
	staff(r).Get("/interviews/{id}", interviewHandler.GetInterviewHandler)
	staff(r).Put("/interviews/{id}", interviewHandler.UpdateInterviewHandler)
	staff(r).Patch("/interviews/{id}/status", interviewHandler.SetStatusHandler)
	staff(r).Patch("/interviews/{id}/archive", interviewHandler.ArchiveInterviewHandler)

	staff(r).Get("/dashboard", dashboardHandler.StaffDashboardHandler)
	r.With(auth).Get("/dashboard/me", dashboardHandler.ApplicantDashboardHandler)

	return &testEnv{db: db, users: userRepo, notifier: notifier, auth: authHandler, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("cv", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/cv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an applicant account through the API and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp authResponse
	decode(t, rec, &resp)
	return resp.Token
}

// staffToken seeds a staff user directly; staff cannot self-register.
func (e *testEnv) staffToken(t *testing.T, username string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("staff-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: string(hash), IsStaff: true}
	require.NoError(t, e.users.CreateUser(context.Background(), user))

	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": "staff-pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp authResponse
	decode(t, rec, &resp)
	return resp.Token
}

func (e *testEnv) createOffer(t *testing.T, token, title, department string) models.Offer {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/offers", token, map[string]string{
		"title":      title,
		"department": department,
		"duration":   "3 months",
		"startDate":  time.Now().AddDate(0, 1, 0).Format(dateLayout),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var offer models.Offer
	decode(t, rec, &offer)
	return offer
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decode(t, rec, &resp)
	return resp.Code
}
