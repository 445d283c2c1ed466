//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	pgutil "github.com/bissquit/statusdash/internal/pkg/postgres"
	"github.com/bissquit/statusdash/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pg := testutil.StartPostgres(t)
	require.NoError(t, Migrate(pg.ConnectionString))
	// Applying twice is a no-op.
	require.NoError(t, Migrate(pg.ConnectionString))

	pool, err := pgutil.Connect(ctx, pgutil.Config{
		URL:             pg.ConnectionString,
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		ConnectAttempts: 3,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewRepository(pool)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	operational := domain.ServiceStatusOperational
	changes := []domain.ServiceStatusChange{
		{ServiceID: 1, ServiceName: "API", NewStatus: domain.ServiceStatusOperational, ObservedAt: base},
		{ServiceID: 2, ServiceName: "Web", NewStatus: domain.ServiceStatusOperational, ObservedAt: base},
		{ServiceID: 1, ServiceName: "API", OldStatus: &operational, NewStatus: domain.ServiceStatusMajorOutage, ObservedAt: base.Add(time.Hour)},
	}
	for i := range changes {
		changes[i].ID = uuid.NewString()
		require.NoError(t, repo.RecordChange(ctx, &changes[i]))
	}

	t.Run("latest statuses", func(t *testing.T) {
		latest, err := repo.LatestStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int64]domain.ServiceStatus{
			1: domain.ServiceStatusMajorOutage,
			2: domain.ServiceStatusOperational,
		}, latest)
	})

	t.Run("list newest first", func(t *testing.T) {
		got, err := repo.ListChanges(ctx, base, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, changes[2].ID, got[0].ID)
		require.NotNil(t, got[0].OldStatus)
		assert.Equal(t, domain.ServiceStatusOperational, *got[0].OldStatus)
		assert.Nil(t, got[1].OldStatus)
		assert.True(t, got[0].ObservedAt.Equal(base.Add(time.Hour)))
	})

	t.Run("since and limit", func(t *testing.T) {
		got, err := repo.ListChanges(ctx, base.Add(time.Minute), 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = repo.ListChanges(ctx, base, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
