package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/offers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/offers/{id}", "418"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/offers/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(notifications.WithLabelValues("application_approved", OutcomeDelivered))
	Notification("application_approved", OutcomeDelivered)
	assert.Equal(t, before+1, testutil.ToFloat64(notifications.WithLabelValues("application_approved", OutcomeDelivered)))

	submitted := testutil.ToFloat64(applicationsSubmitted)
	ApplicationSubmitted()
	assert.Equal(t, submitted+1, testutil.ToFloat64(applicationsSubmitted))

	rejected := testutil.ToFloat64(applicationsRejected.WithLabelValues("MISSING_CV"))
	ApplicationRejected("MISSING_CV")
	assert.Equal(t, rejected+1, testutil.ToFloat64(applicationsRejected.WithLabelValues("MISSING_CV")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	InterviewScheduled()
	ApplicationStatusChanged("approved")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "internhub_interviews_scheduled_total"))
	assert.True(t, strings.Contains(body, `internhub_application_status_changes_total{status="approved"}`))
}
