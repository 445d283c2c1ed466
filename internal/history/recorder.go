package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/google/uuid"
)

// ServiceSource lists the services to watch.
type ServiceSource interface {
	PublicServices(ctx context.Context) ([]domain.Service, error)
}

// Notifier is told about every transition after it is recorded.
type Notifier interface {
	Notify(ctx context.Context, change domain.ServiceStatusChange) error
}

// RecorderConfig contains recorder configuration.
type RecorderConfig struct {
	PollInterval time.Duration
}

// DefaultRecorderConfig returns default recorder configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		PollInterval: 30 * time.Second,
	}
}

// Recorder polls upstream services and records status transitions.
//
// The first time a service is seen its status is recorded as a baseline
// without notifying. Later polls record and notify only when the status
// differs from the last recorded one.
type Recorder struct {
	config   RecorderConfig
	source   ServiceSource
	repo     Repository
	notifier Notifier
	now      func() time.Time

	mu     sync.Mutex
	last   map[int64]domain.ServiceStatus
	loaded bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRecorder creates a new recorder. notifier may be nil.
func NewRecorder(config RecorderConfig, source ServiceSource, repo Repository, notifier Notifier) *Recorder {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultRecorderConfig().PollInterval
	}
	return &Recorder{
		config:   config,
		source:   source,
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		last:     make(map[int64]domain.ServiceStatus),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the polling goroutine. The first poll runs immediately.
func (r *Recorder) Start(ctx context.Context) {
	slog.Info("starting status history recorder", "poll_interval", r.config.PollInterval)

	r.wg.Add(1)
	go r.run(ctx)
}

// Stop stops polling and waits for the current poll to finish. It is safe
// to call more than once.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()
		slog.Info("status history recorder stopped")
	})
}

func (r *Recorder) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	r.pollAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.pollAndLog(ctx)
		}
	}
}

func (r *Recorder) pollAndLog(ctx context.Context) {
	if _, err := r.Poll(ctx); err != nil {
		slog.Error("status history poll failed", "error", err)
	}
}

// Poll fetches services once and records every transition. It returns the
// recorded changes.
func (r *Recorder) Poll(ctx context.Context) ([]domain.ServiceStatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		latest, err := r.repo.LatestStatuses(ctx)
		if err != nil {
			recordPoll("error")
			return nil, fmt.Errorf("load latest statuses: %w", err)
		}
		for id, st := range latest {
			r.last[id] = st
		}
		r.loaded = true
	}

	services, err := r.source.PublicServices(ctx)
	if err != nil {
		recordPoll("error")
		return nil, fmt.Errorf("fetch services: %w", err)
	}

	now := r.now()
	var changes []domain.ServiceStatusChange
	for _, svc := range services {
		old, seen := r.last[svc.ID]
		if seen && old == svc.Status {
			continue
		}

		change := domain.ServiceStatusChange{
			ID:          uuid.NewString(),
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			NewStatus:   svc.Status,
			ObservedAt:  now,
		}
		if seen {
			change.OldStatus = &old
		}

		if err := r.repo.RecordChange(ctx, &change); err != nil {
			recordPoll("error")
			return changes, fmt.Errorf("record change for service %d: %w", svc.ID, err)
		}
		r.last[svc.ID] = svc.Status
		recordChange(string(svc.Status))
		changes = append(changes, change)

		if !seen {
			continue
		}

		slog.Info("service status changed",
			"service_id", svc.ID,
			"service", svc.Name,
			"old_status", old,
			"new_status", svc.Status,
		)
		if r.notifier != nil {
			if err := r.notifier.Notify(ctx, change); err != nil {
				slog.Warn("failed to notify status change", "service_id", svc.ID, "error", err)
			}
		}
	}

	trackedServices.Set(float64(len(r.last)))
	recordPoll("success")
	return changes, nil
}
