package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/agent"
	"github.com/hirestack/screening-agent/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UploadsDir = t.TempDir()
	return NewServer(agent.New(cfg, zap.NewNop()), zap.NewNop())
}

func doRequest(t *testing.T, s *Server, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusEndpoint_IdleBeforeIngestion(t *testing.T) {
	s := newTestServer(t)

	rec, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "idle", body["message"])
	assert.EqualValues(t, 0, body["current"])
}

func TestReportEndpoint_NoResultsYet(t *testing.T) {
	s := newTestServer(t)

	rec, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "no results")
}

func TestExportEndpoint_NoResultsYet(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRootEndpoint_ListsRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, endpoints, "POST /ingest")
	assert.Contains(t, endpoints, "GET /status")
}

func TestIngestEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing requirements",
			fields:   map[string]string{"method": "upload"},
			wantCode: http.StatusBadRequest,
			wantErr:  "requirements is required",
		},
		{
			name:     "unknown method",
			fields:   map[string]string{"method": "carrier-pigeon", "requirements": `{"target_role":"SRE"}`},
			wantCode: http.StatusBadRequest,
			wantErr:  "method must be",
		},
		{
			name:     "gmail without subject",
			fields:   map[string]string{"method": "gmail", "requirements": `{"target_role":"SRE"}`},
			wantCode: http.StatusBadRequest,
			wantErr:  "gmail_subject is required",
		},
		{
			name:     "upload without files",
			fields:   map[string]string{"method": "upload", "requirements": `{"target_role":"SRE"}`},
			wantCode: http.StatusInternalServerError,
			wantErr:  "no files uploaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			var buf bytes.Buffer
			form := multipart.NewWriter(&buf)
			for key, value := range tt.fields {
				require.NoError(t, form.WriteField(key, value))
			}
			require.NoError(t, form.Close())

			req := httptest.NewRequest(http.MethodPost, "/ingest", &buf)
			req.Header.Set("Content-Type", form.FormDataContentType())

			rec, body := doRequest(t, s, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}
