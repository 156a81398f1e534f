package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agroclima.app/config"
	apperrors "agroclima.app/errors"
	"agroclima.app/models"
)

type mockSyncService struct {
	mock.Mock
}

func (m *mockSyncService) RunSync(ctx context.Context, detailed bool) (*models.RunSummary, error) {
	args := m.Called(detailed)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RunSummary), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Sync: config.SyncConfig{
			SharedSecret:   "test-secret",
			CronHeaderName: "X-Cron-Trigger",
			ThrottleMs:     100,
		},
	}
}

func setupServer(t *testing.T) (*Server, *mockSyncService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	syncService := new(mockSyncService)
	server := NewServer(testConfig(), syncService)
	return server, syncService
}

func performRequest(server *Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	server.GetRouter().ServeHTTP(w, req)
	return w
}

func TestServer_SyncStatus(t *testing.T) {
	server, _ := setupServer(t)

	w := performRequest(server, http.MethodGet, "/api/climate/sync", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "climate-sync", body["service"])
	assert.Equal(t, "ok", body["status"])
}

func TestServer_RunSync_Unauthorized(t *testing.T) {
	server, syncService := setupServer(t)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"NoHeaders", nil},
		{"WrongSecret", map[string]string{"Authorization": "Bearer wrong"}},
		{"MalformedAuthorization", map[string]string{"Authorization": "test-secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(server, http.MethodPost, "/api/climate/sync", tt.headers)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}

	syncService.AssertNotCalled(t, "RunSync", mock.Anything)
}

func TestServer_RunSync_BearerToken(t *testing.T) {
	server, syncService := setupServer(t)

	syncService.On("RunSync", false).Return(&models.RunSummary{
		RunID:   "run-1",
		Date:    "2026-08-29",
		Total:   5,
		Updated: 4,
		Errors:  1,
	}, nil)

	w := performRequest(server, http.MethodPost, "/api/climate/sync",
		map[string]string{"Authorization": "Bearer test-secret"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["total_usuarios"])
	assert.Equal(t, float64(4), body["atualizados"])
	assert.Equal(t, float64(1), body["erros"])
	assert.Equal(t, "2026-08-29", body["data"])

	// A run with partial failures is still an HTTP success
	syncService.AssertExpectations(t)
}

func TestServer_RunSync_CronHeader(t *testing.T) {
	server, syncService := setupServer(t)

	syncService.On("RunSync", false).Return(&models.RunSummary{Date: "2026-08-29"}, nil)

	w := performRequest(server, http.MethodPost, "/api/climate/sync",
		map[string]string{"X-Cron-Trigger": "1"})

	assert.Equal(t, http.StatusOK, w.Code)
	syncService.AssertExpectations(t)
}

func TestServer_RunSync_LoadFailureReturns500(t *testing.T) {
	server, syncService := setupServer(t)

	syncService.On("RunSync", false).
		Return(nil, apperrors.NewDatabaseError("failed to load location profiles", nil))

	w := performRequest(server, http.MethodPost, "/api/climate/sync",
		map[string]string{"Authorization": "Bearer test-secret"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestServer_RunSyncWithReport(t *testing.T) {
	server, syncService := setupServer(t)

	syncService.On("RunSync", true).Return(&models.RunSummary{
		Date:    "2026-08-29",
		Total:   2,
		Updated: 1,
		Errors:  1,
		Outcomes: []models.SubscriberOutcome{
			{UserID: "u1", Status: "atualizado"},
			{UserID: "u2", Status: "erro", Error: "NOT_FOUND_ERROR: no coordinates found for Atlantis, ZZ"},
		},
	}, nil)

	w := performRequest(server, http.MethodPost, "/api/climate/sync/report",
		map[string]string{"Authorization": "Bearer test-secret"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success  bool `json:"success"`
		Outcomes []struct {
			UserID string `json:"usuario_id"`
			Status string `json:"status"`
			Error  string `json:"erro"`
		} `json:"detalhes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Outcomes, 2)
	assert.Equal(t, "u1", body.Outcomes[0].UserID)
	assert.Equal(t, "atualizado", body.Outcomes[0].Status)
	assert.Equal(t, "erro", body.Outcomes[1].Status)
	assert.Contains(t, body.Outcomes[1].Error, "no coordinates found")
}

func TestServer_RunSyncWithReport_Unauthorized(t *testing.T) {
	server, syncService := setupServer(t)

	w := performRequest(server, http.MethodPost, "/api/climate/sync/report", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	syncService.AssertNotCalled(t, "RunSync", mock.Anything)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	server, _ := setupServer(t)

	w := performRequest(server, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
