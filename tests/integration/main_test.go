//go:build integration

package integration

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/app"
	"github.com/bissquit/statusdash/internal/config"
	"github.com/bissquit/statusdash/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	testServer     *httptest.Server
	testApp        *app.App
	testDB         *pgxpool.Pool
	testUpstream   *fakeBackend
	testMattermost *fakeWebhook
	testValidator  *testutil.OpenAPIValidator
	upstreamServer *httptest.Server
	webhookServer  *httptest.Server
)

// OpenAPI document path relative to the tests/integration directory.
const openAPISpecPath = "../../api/openapi/openapi.yaml"

// newTestClient creates a client that validates every response against the
// OpenAPI document.
func newTestClient(t *testing.T) *testutil.Client {
	t.Helper()
	client := testutil.NewClientWithValidator(testServer.URL, testValidator)
	client.SetT(t)
	return client
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	testUpstream = newFakeBackend()
	upstreamServer = httptest.NewServer(testUpstream.router())
	testMattermost = &fakeWebhook{}
	webhookServer = httptest.NewServer(testMattermost)

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.MetricsPort = "0"
	cfg.Upstream.BaseURL = upstreamServer.URL
	cfg.Database.URL = pgContainer.ConnectionString
	cfg.Database.MaxOpenConns = 5
	cfg.Database.ConnectAttempts = 3
	cfg.Log = config.LogConfig{Level: "error", Format: "text"}
	cfg.Stream.PushInterval = time.Second
	// Polls are driven by the tests through Recorder().Poll.
	cfg.History.PollInterval = time.Hour
	cfg.Notifications.Enabled = true
	cfg.Notifications.BaseURL = "https://status.example.com"
	cfg.Notifications.Mattermost.Webhooks = []string{webhookServer.URL + "/hooks/test"}
	cfg.Notifications.Retry.InitialBackoff = 10 * time.Millisecond
	cfg.Notifications.Retry.MaxBackoff = 50 * time.Millisecond

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid test config: %v", err)
	}

	testApp, err = app.New(&cfg)
	if err != nil {
		log.Fatalf("create app: %v", err)
	}

	// Baseline every service before the tests change anything.
	if _, err := testApp.Recorder().Poll(ctx); err != nil {
		log.Fatalf("baseline poll: %v", err)
	}

	testDB, err = pgxpool.New(ctx, pgContainer.ConnectionString)
	if err != nil {
		log.Fatalf("create test db pool: %v", err)
	}

	testServer = httptest.NewServer(testApp.Router())

	testValidator, err = testutil.LoadOpenAPIValidator(openAPISpecPath)
	if err != nil {
		log.Fatalf("load OpenAPI validator: %v", err)
	}

	code := m.Run()

	testServer.Close()
	testDB.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := testApp.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown app: %v", err)
	}

	upstreamServer.Close()
	webhookServer.Close()

	os.Exit(code)
}
