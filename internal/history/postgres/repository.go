// Package postgres provides PostgreSQL implementation of the history repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the history.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// RecordChange inserts a status transition.
func (r *Repository) RecordChange(ctx context.Context, change *domain.ServiceStatusChange) error {
	query := `
		INSERT INTO service_status_changes (id, service_id, service_name, old_status, new_status, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var oldStatus *string
	if change.OldStatus != nil {
		s := string(*change.OldStatus)
		oldStatus = &s
	}

	_, err := r.db.Exec(ctx, query,
		change.ID,
		change.ServiceID,
		change.ServiceName,
		oldStatus,
		string(change.NewStatus),
		change.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("record status change: %w", err)
	}
	return nil
}

// LatestStatuses returns the most recently recorded status per service.
func (r *Repository) LatestStatuses(ctx context.Context) (map[int64]domain.ServiceStatus, error) {
	query := `
		SELECT DISTINCT ON (service_id) service_id, new_status
		FROM service_status_changes
		ORDER BY service_id, observed_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest statuses: %w", err)
	}
	defer rows.Close()

	latest := make(map[int64]domain.ServiceStatus)
	for rows.Next() {
		var (
			serviceID int64
			status    string
		)
		if err := rows.Scan(&serviceID, &status); err != nil {
			return nil, fmt.Errorf("scan latest status: %w", err)
		}
		latest[serviceID] = domain.ServiceStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest statuses: %w", err)
	}
	return latest, nil
}

// ListChanges returns transitions observed at or after since, newest first.
// A non-positive limit returns all of them.
func (r *Repository) ListChanges(ctx context.Context, since time.Time, limit int) ([]domain.ServiceStatusChange, error) {
	query := `
		SELECT id::text, service_id, service_name, old_status, new_status, observed_at
		FROM service_status_changes
		WHERE observed_at >= $1
		ORDER BY observed_at DESC, id
	`
	args := []any{since}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status changes: %w", err)
	}

	changes, err := pgx.CollectRows(rows, scanChange)
	if err != nil {
		return nil, fmt.Errorf("collect status changes: %w", err)
	}
	return changes, nil
}

func scanChange(row pgx.CollectableRow) (domain.ServiceStatusChange, error) {
	var (
		c         domain.ServiceStatusChange
		oldStatus *string
		newStatus string
	)
	err := row.Scan(&c.ID, &c.ServiceID, &c.ServiceName, &oldStatus, &newStatus, &c.ObservedAt)
	if err != nil {
		return c, err
	}
	if oldStatus != nil {
		s := domain.ServiceStatus(*oldStatus)
		c.OldStatus = &s
	}
	c.NewStatus = domain.ServiceStatus(newStatus)
	return c, nil
}
