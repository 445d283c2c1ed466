// Package history records service status transitions observed upstream.
package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
)

// Repository stores recorded status transitions.
type Repository interface {
	RecordChange(ctx context.Context, change *domain.ServiceStatusChange) error
	LatestStatuses(ctx context.Context) (map[int64]domain.ServiceStatus, error)
	ListChanges(ctx context.Context, since time.Time, limit int) ([]domain.ServiceStatusChange, error)
}

// MemoryRepository keeps transitions in process memory. It is used when no
// database is configured, so history is lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	changes []domain.ServiceStatusChange
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// RecordChange appends a transition.
func (r *MemoryRepository) RecordChange(_ context.Context, change *domain.ServiceStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, *change)
	return nil
}

// LatestStatuses returns the most recently recorded status per service.
func (r *MemoryRepository) LatestStatuses(_ context.Context) (map[int64]domain.ServiceStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[int64]domain.ServiceStatus)
	at := make(map[int64]time.Time)
	for _, c := range r.changes {
		if t, ok := at[c.ServiceID]; ok && c.ObservedAt.Before(t) {
			continue
		}
		latest[c.ServiceID] = c.NewStatus
		at[c.ServiceID] = c.ObservedAt
	}
	return latest, nil
}

// ListChanges returns transitions observed at or after since, newest first.
func (r *MemoryRepository) ListChanges(_ context.Context, since time.Time, limit int) ([]domain.ServiceStatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ServiceStatusChange, 0)
	for _, c := range r.changes {
		if !c.ObservedAt.Before(since) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ServiceStatusChange) int {
		return b.ObservedAt.Compare(a.ObservedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
