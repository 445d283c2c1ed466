package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/config"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/public/services", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Service{
			{ID: 1, Name: "API", Status: domain.ServiceStatusOperational, IsActive: true},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T, upstreamURL string) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Upstream.BaseURL = upstreamURL
	cfg.Upstream.Timeout = time.Second
	cfg.Log.Level = "error"
	cfg.History.PollInterval = time.Hour
	require.NoError(t, cfg.Validate())

	a, err := New(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

func serve(a *App, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNew_WithoutDatabase(t *testing.T) {
	a := newTestApp(t, newUpstream(t).URL)

	assert.Nil(t, a.db)
	require.NotNil(t, a.Recorder())

	// The first poll may race the recorder's own and records the baseline.
	_, err := a.Recorder().Poll(t.Context())
	require.NoError(t, err)

	changes, err := a.Recorder().Poll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestProbes(t *testing.T) {
	upstream := newUpstream(t)
	a := newTestApp(t, upstream.URL)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"healthz", "/healthz", http.StatusOK},
		{"readyz", "/readyz", http.StatusOK},
		{"version", "/version", http.StatusOK},
		{"unknown", "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(a, http.MethodGet, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestReadyz_UpstreamDown(t *testing.T) {
	upstream := newUpstream(t)
	a := newTestApp(t, upstream.URL)
	upstream.Close()

	rec := serve(a, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream unavailable")
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		level string
		want  bool // debug enabled
	}{
		{"debug", true},
		{"info", false},
		{"bogus", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := initLogger(config.LogConfig{Level: tt.level, Format: "text"})
			assert.Equal(t, tt.want, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}
