//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/testutil"
	"github.com/stretchr/testify/require"
)

// envelope is the success response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

// getData performs a GET, requires status 200 and decodes the data field.
func getData[T any](t *testing.T, client *testutil.Client, path string) T {
	t.Helper()

	resp, err := client.GET(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var out envelope[T]
	testutil.DecodeJSON(t, resp, &out)
	return out.Data
}

// changeStatus sets a service status upstream and restores it after the
// test, polling the recorder after each change.
func changeStatus(t *testing.T, id int64, status domain.ServiceStatus) []domain.ServiceStatusChange {
	t.Helper()

	var previous domain.ServiceStatus
	for _, s := range testUpstream.snapshot() {
		if s.ID == id {
			previous = s.Status
		}
	}
	require.NotEmpty(t, previous, "unknown service %d", id)

	testUpstream.setStatus(id, status)
	t.Cleanup(func() {
		testUpstream.setStatus(id, previous)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := testApp.Recorder().Poll(ctx); err != nil {
			t.Logf("restore poll: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	changes, err := testApp.Recorder().Poll(ctx)
	require.NoError(t, err)
	return changes
}

// countChanges returns the number of recorded transitions of a service.
func countChanges(t *testing.T, serviceID int64) int {
	t.Helper()

	var n int
	err := testDB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM service_status_changes WHERE service_id = $1`, serviceID).Scan(&n)
	require.NoError(t, err)
	return n
}
