package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beathaus/jobs-be/internal/api/auth"
	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/handler"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/beathaus/jobs-be/internal/api/storage/memory"
)

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenService
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	events := service.NewEvents(logger, nil)
	tokens := auth.NewTokenService("test-secret", time.Hour)

	deps := &handler.Dependencies{
		Logger:  logger,
		Jobs:    service.NewJobService(logger, store, events),
		Escrow:  service.NewEscrowService(logger, store, store),
		Uploads: service.NewUploadSigner("http://uploads.local", "upload-secret", 15*time.Minute),
	}

	return &testEnv{
		router: SetupRouter(deps, tokens),
		tokens: tokens,
		store:  store,
	}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.tokens.Generate(userID, role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJob(t *testing.T, w *httptest.ResponseRecorder) dto.JobDTO {
	t.Helper()
	var job dto.JobDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	return job
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCreateJob(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/jobs", token,
		`{"title":"Trap beat","category":"production","budget":100,"genres":["trap"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	job := decodeJob(t, w)
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, "user-1", job.UserID)
	assert.Equal(t, "PENDING", job.Status)
	assert.Equal(t, "USD", job.Currency)
}

func TestCreateJob_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleUser)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"category":"production"}`},
		{name: "bad currency", body: `{"title":"Beat","category":"production","currency":"DOLLARS"}`},
		{name: "bad deadline", body: `{"title":"Beat","category":"production","deadline_date":"tomorrow"}`},
		{name: "bad reference url", body: `{"title":"Beat","category":"production","reference_urls":["not a url"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/jobs", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestOpenJob_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "user-1", auth.RoleUser)
	admin := env.token(t, "admin-1", auth.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/v1/jobs", owner, `{"title":"Beat","category":"production","budget":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decodeJob(t, w).JobID

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/open", owner, "")
	assert.Equal(t, http.StatusForbidden, w.Code, "moderation is admin-only")

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/open", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/open", admin, "")
	assert.Equal(t, http.StatusConflict, w.Code, "job is no longer PENDING")
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", auth.RoleUser)
	admin := env.token(t, "admin-1", auth.RoleAdmin)
	provider1 := env.token(t, "provider-1", auth.RoleUser)
	provider2 := env.token(t, "provider-2", auth.RoleUser)

	// Post and moderate.
	w := env.do(t, http.MethodPost, "/api/v1/jobs", owner, `{"title":"Boom bap","category":"production","budget":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decodeJob(t, w).JobID

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/open", admin, "")
	require.Equal(t, http.StatusOK, w.Code)

	// The job now appears on the board.
	w = env.do(t, http.MethodGet, "/api/v1/jobs", provider1, "")
	require.Equal(t, http.StatusOK, w.Code)
	var board dto.ListJobsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Equal(t, 1, board.Total)

	// Two providers bid; the owner cannot bid on their own job.
	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids", provider1, `{"amount":80}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var lowBid dto.BidDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lowBid))

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids", provider2, `{"amount":95}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids", owner, `{"amount":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Only the owner can accept; accepting adopts the bid amount.
	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids/"+lowBid.BidID+"/accept", provider2, `{"adopt_amount":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids/"+lowBid.BidID+"/accept", owner, `{"adopt_amount":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	job := decodeJob(t, w)
	assert.Equal(t, "ASSIGNED", job.Status)
	assert.Equal(t, "provider-1", job.AssignedProviderID)
	assert.Equal(t, 80.0, job.Budget)

	// Assigned jobs leave the public board.
	w = env.do(t, http.MethodGet, "/api/v1/jobs", provider1, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, 0, board.Total)

	// Escrow starts unfunded, releasing now conflicts.
	w = env.do(t, http.MethodGet, "/api/v1/jobs/"+jobID+"/escrow", owner, "")
	require.Equal(t, http.StatusOK, w.Code)
	var esc dto.EscrowDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &esc))
	assert.False(t, esc.Paid)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/escrow/release", owner, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Fund, then release.
	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/escrow/fund", owner, `{"amount":80,"currency":"USD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &esc))
	assert.True(t, esc.Paid)
	assert.False(t, esc.Released)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/escrow/fund", owner, `{"amount":500,"currency":"USD"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "double funding is rejected")

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/complete", owner, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/escrow/release", owner, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &esc))
	assert.True(t, esc.Paid)
	assert.True(t, esc.Released)
}

func TestDeclineBidOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", auth.RoleUser)
	admin := env.token(t, "admin-1", auth.RoleAdmin)
	provider := env.token(t, "provider-1", auth.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/jobs", owner, `{"title":"Beat","category":"production"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decodeJob(t, w).JobID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/open", admin, "").Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/bids", provider, `{"amount":50}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var bid dto.BidDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bid))

	w = env.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID+"/bids/"+bid.BidID, owner, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID+"/bids/"+bid.BidID, owner, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleUser)

	w := env.do(t, http.MethodGet, "/api/v1/jobs/missing", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUploadURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/uploads", token, `{"filename":"reference.mp3","content_type":"audio/mpeg"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.UploadURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.URL, "signature=")
	assert.True(t, strings.HasSuffix(resp.Key, ".mp3"))
}

func TestCapturePaymentOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", auth.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/jobs", owner, `{"title":"Beat","category":"production","budget":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decodeJob(t, w).JobID

	w = env.do(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/pay", owner,
		`{"order_id":"ORDER-1","amount":100,"currency":"USD","reference":"txn-abc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var esc dto.EscrowDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &esc))
	assert.True(t, esc.Paid)
	assert.Equal(t, 100.0, esc.Amount)
}
