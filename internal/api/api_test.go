package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/api"
	"supacoach/coach-api/internal/app"
	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/database/dbtest"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/mailer"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/ratelimit"
	"supacoach/coach-api/internal/service"
	"supacoach/coach-api/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Install()
}

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Invitation
}

func (s *captureSender) SendInvitation(_ context.Context, inv mailer.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, inv)
	return nil
}

func (s *captureSender) lastToken(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	url := s.sent[len(s.sent)-1].AcceptURL
	return url[strings.LastIndex(url, "/")+1:]
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	router *gin.Engine
	sender *captureSender
}

func newTestServer(t *testing.T, mutate func(*api.RouterOptions)) *testServer {
	t.Helper()
	db := dbtest.New(t)
	sender := &captureSender{}
	svc := app.NewServices(app.Deps{
		DB:     db,
		Sender: sender,
		Logger: logger.Nop(),
		JWT:    config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "supacoach-test"},
		Invitation: service.InvitationOptions{
			AppOrigin: "https://app.example.com",
			TTL:       48 * time.Hour,
		},
	})
	opts := api.RouterOptions{
		Logger:     logger.Nop(),
		Database:   db,
		LimitStore: ratelimit.NewMemoryStore(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	router := gin.New()
	api.SetupRoutes(router, svc, opts)
	return &testServer{router: router, sender: sender}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signUp registers an account and returns its bearer token.
func (s *testServer) signUp(t *testing.T, name, role string) string {
	t.Helper()
	email := strings.ToLower(name) + "-" + uuid.NewString()[:8] + "@example.com"
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login api.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

type envelope struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t, nil)
		rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rec.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		srv := newTestServer(t, func(o *api.RouterOptions) { o.Redis = failingPinger{} })
		rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","redis":"down"}}`, rec.Body.String())
	})
}

func TestAuthenticationIsRequired(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.CodeUnauthorized), decodeError(t, rec).Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	basic := httptest.NewRecorder()
	srv.router.ServeHTTP(basic, req)
	assert.Equal(t, http.StatusUnauthorized, basic.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))

	rec = srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRolesAreEnforced(t *testing.T) {
	srv := newTestServer(t, nil)
	clientToken := srv.signUp(t, "Casey", "client")
	coachToken := srv.signUp(t, "Morgan", "coach")

	rec := srv.do(t, http.MethodGet, "/api/v1/clients", clientToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperr.CodeForbidden), decodeError(t, rec).Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/dashboard/stats", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/users/me/coaches", coachToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/clients", coachToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestValidationErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "A", "email": "not-an-email", "password": "short", "role": "admin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, string(apperr.CodeValidation), body.Code)
	assert.Contains(t, body.Details, "email")
	assert.Contains(t, body.Details, "password")
	assert.Contains(t, body.Details, "role")

	coach := srv.signUp(t, "Morgan", "coach")
	rec = srv.do(t, http.MethodGet, "/api/v1/clients/not-a-uuid", coach, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"clientId": "must be a valid UUID"}, decodeError(t, rec).Details)

	rec = srv.do(t, http.MethodGet, "/api/v1/workout-logs", coach, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnrelatedClientIsNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	coach := srv.signUp(t, "Morgan", "coach")

	rec := srv.do(t, http.MethodGet, "/api/v1/clients/"+uuid.NewString(), coach, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, string(apperr.CodeNotFound), body.Code)
	assert.Equal(t, apperr.MetadataFor(apperr.CodeNotFound).PublicMessage, body.Error)
}

func TestInvitationFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	coach := srv.signUp(t, "Morgan", "coach")

	rec := srv.do(t, http.MethodPost, "/api/v1/clients/invitations", coach, gin.H{
		"firstName":    "Jamie",
		"lastName":     "Rivera",
		"email":        "  Jamie@Example.com ",
		"heightUnit":   "cm",
		"weightUnit":   "kg",
		"fitnessGoals": []string{"Run a 10k"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), srv.sender.lastToken(t), "token must not be returned to the coach")

	rec = srv.do(t, http.MethodGet, "/api/v1/clients/invitations", coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0]["status"])
	assert.Equal(t, "jamie@example.com", pending[0]["email"])

	token := srv.sender.lastToken(t)
	rec = srv.do(t, http.MethodPost, "/api/v1/invitations/"+token+"/accept", "", gin.H{"password": "brand-new-pass"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "jamie@example.com", "password": "brand-new-pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/clients", coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jamie Rivera")

	for _, tok := range []string{token, "never-issued"} {
		rec = srv.do(t, http.MethodPost, "/api/v1/invitations/"+tok+"/accept", "", gin.H{"password": "brand-new-pass"})
		require.Equal(t, http.StatusGone, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, string(apperr.CodeInvitationInvalid), body.Code)
		assert.Equal(t, apperr.InvalidInvitationMessage, body.Error)
	}
}

func TestRateLimitedLogin(t *testing.T) {
	srv := newTestServer(t, func(o *api.RouterOptions) {
		o.LoginLimit = ratelimit.NewPolicy("auth_login", time.Minute, 2)
	})
	creds := gin.H{"email": "nobody@example.com", "password": "password123"}

	for range 2 {
		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, string(apperr.CodeRateLimit), decodeError(t, rec).Code)
}

func TestWorkoutPlanRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	coach := srv.signUp(t, "Morgan", "coach")

	rec := srv.do(t, http.MethodPost, "/api/v1/clients/invitations", coach, gin.H{
		"firstName": "Jamie", "lastName": "Rivera", "email": "jamie@example.com",
		"heightUnit": "cm", "weightUnit": "kg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodPost, "/api/v1/invitations/"+srv.sender.lastToken(t)+"/accept", "", gin.H{"password": "brand-new-pass"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var accepted struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))

	rec = srv.do(t, http.MethodPost, "/api/v1/workout-plans", coach, gin.H{
		"clientId":  accepted.UserID,
		"name":      "Base building",
		"startDate": "2026-06-01",
		"endDate":   "2026-05-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/v1/workout-plans", coach, gin.H{
		"clientId":  accepted.UserID,
		"name":      "Base building",
		"startDate": "2026-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var plan struct {
		ID        string `json:"id"`
		StartDate string `json:"startDate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "2026-06-01", plan.StartDate)

	rec = srv.do(t, http.MethodGet, "/api/v1/workout-plans/"+plan.ID+"/sessions", coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/api/v1/workout-plans/"+plan.ID, coach, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/workout-plans/"+plan.ID, coach, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressPhotosWithoutStorage(t *testing.T) {
	srv := newTestServer(t, nil)
	client := srv.signUp(t, "Casey", "client")

	rec := srv.do(t, http.MethodGet, "/api/v1/users/me", client, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))

	rec = srv.do(t, http.MethodPost, "/api/v1/progress-logs", client, gin.H{
		"clientId": me.ID, "date": "2026-05-20", "weight": 80.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))

	rec = srv.do(t, http.MethodPost, "/api/v1/progress-logs/"+entry.ID+"/photos/upload-url", client, gin.H{
		"fileName": "front.jpg", "contentType": "image/jpeg", "size": 1024,
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, string(apperr.CodeDependency), decodeError(t, rec).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, func(o *api.RouterOptions) {
		o.Metrics = metrics.New(reg, reg)
		o.MetricsPath = "/metrics"
	})

	srv.do(t, http.MethodGet, "/healthz", "", nil)
	rec := srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/healthz"`)
}
