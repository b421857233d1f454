package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordsRequestsAndInvitations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, reg)

	m.ObserveRequest(http.MethodGet, "/api/v1/dashboard/stats", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/dashboard/stats", 200, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)
	m.IncInvitation(InvitationIssued)
	m.IncInvitation(InvitationAccepted)
	m.IncInvitation(InvitationAccepted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/dashboard/stats", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.invitations.WithLabelValues(InvitationAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invitations.WithLabelValues(InvitationIssued)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "supacoach_invitations_total")
	assert.Contains(t, rec.Body.String(), "supacoach_http_request_duration_seconds_bucket")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.IncInvitation(InvitationRejected)
	})
	assert.NotPanics(t, func() {
		New(nil, nil).IncInvitation(InvitationIssued)
	})
}
