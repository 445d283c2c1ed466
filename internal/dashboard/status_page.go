// Package dashboard assembles display-ready view models from upstream data.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
	"github.com/bissquit/statusdash/internal/timeline"
	"golang.org/x/sync/errgroup"
)

const (
	statusPageEvents  = 30
	statusPageWindow  = 7 * 24 * time.Hour
	timelineWindow    = 30 * 24 * time.Hour
	maxRecordedEvents = 500
	maxUpstreamEvents = 500
	timelinePageSize  = 100
)

// Source provides the public upstream entities.
type Source interface {
	PublicServices(ctx context.Context) ([]domain.Service, error)
	ActiveIncidents(ctx context.Context) ([]domain.Incident, error)
	ActiveMaintenances(ctx context.Context) ([]domain.Maintenance, error)
}

// TimelineSource provides the upstream 30-day timeline. Unlike the active
// listings it includes resolved incidents and maintenances that already ended.
type TimelineSource interface {
	PublicServices(ctx context.Context) ([]domain.Service, error)
	PublicTimeline(ctx context.Context, q apiclient.TimelineQuery) ([]domain.TimelineEvent, error)
}

// OverviewSource provides the combined upstream status overview.
type OverviewSource interface {
	PublicStatus(ctx context.Context) (*domain.StatusOverview, error)
}

// HistoryReader provides recorded service status transitions.
type HistoryReader interface {
	ListChanges(ctx context.Context, since time.Time, limit int) ([]domain.ServiceStatusChange, error)
}

// ServiceView is a service with its display label.
type ServiceView struct {
	domain.Service
	StatusLabel string `json:"status_label"`
}

// StatusPage is the public status page view model.
type StatusPage struct {
	OverallStatus status.Level                 `json:"overall_status"`
	OverallLabel  string                       `json:"overall_label"`
	Counts        map[domain.ServiceStatus]int `json:"counts"`
	Services      []ServiceView                `json:"services"`
	Incidents     []domain.Incident            `json:"incidents"`
	Maintenances  []domain.Maintenance         `json:"maintenances"`
	Timeline      []domain.TimelineEvent       `json:"timeline"`
	LastUpdated   *time.Time                   `json:"last_updated,omitempty"`
	GeneratedAt   time.Time                    `json:"generated_at"`
}

type snapshot struct {
	services     []domain.Service
	incidents    []domain.Incident
	maintenances []domain.Maintenance
	changes      []domain.ServiceStatusChange
}

func fetch(ctx context.Context, src Source, history HistoryReader, since time.Time, limit int) (*snapshot, error) {
	var s snapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.services, err = src.PublicServices(gCtx)
		if err != nil {
			return fmt.Errorf("fetch services: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		s.incidents, err = src.ActiveIncidents(gCtx)
		if err != nil {
			return fmt.Errorf("fetch incidents: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		s.maintenances, err = src.ActiveMaintenances(gCtx)
		if err != nil {
			return fmt.Errorf("fetch maintenances: %w", err)
		}
		return nil
	})

	if history != nil {
		g.Go(func() error {
			var err error
			s.changes, err = history.ListChanges(gCtx, since, limit)
			if err != nil {
				return fmt.Errorf("fetch status changes: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadStatusPage fetches the public entities concurrently and derives the
// overall status and the recent timeline. history may be nil.
func LoadStatusPage(ctx context.Context, src Source, history HistoryReader, now time.Time) (*StatusPage, error) {
	s, err := fetch(ctx, src, history, now.Add(-statusPageWindow), statusPageEvents)
	if err != nil {
		return nil, err
	}
	return buildStatusPage(s, now), nil
}

// LoadOverviewPage builds the same view model as LoadStatusPage from a single
// upstream overview request. history may be nil.
func LoadOverviewPage(ctx context.Context, src OverviewSource, history HistoryReader, now time.Time) (*StatusPage, error) {
	var s snapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview, err := src.PublicStatus(gCtx)
		if err != nil {
			return fmt.Errorf("fetch status overview: %w", err)
		}
		s.services, s.incidents, s.maintenances = overview.Services, overview.Incidents, overview.Maintenances
		return nil
	})

	if history != nil {
		g.Go(func() error {
			var err error
			s.changes, err = history.ListChanges(gCtx, now.Add(-statusPageWindow), statusPageEvents)
			if err != nil {
				return fmt.Errorf("fetch status changes: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buildStatusPage(&s, now), nil
}

func buildStatusPage(s *snapshot, now time.Time) *StatusPage {
	summary := status.Summarize(s.services)

	services := make([]ServiceView, 0, len(s.services))
	var lastUpdated *time.Time
	for _, svc := range s.services {
		services = append(services, ServiceView{Service: svc, StatusLabel: status.Label(string(svc.Status))})
		if lastUpdated == nil || svc.UpdatedAt.After(*lastUpdated) {
			t := svc.UpdatedAt
			lastUpdated = &t
		}
	}

	events := timeline.Compose(
		timeline.FromIncidents(s.incidents),
		timeline.FromLatestUpdates(s.incidents),
		timeline.FromMaintenances(s.maintenances),
		timeline.FromStatusChanges(s.changes),
	)
	events = timeline.WithServiceNames(events, s.services)

	return &StatusPage{
		OverallStatus: summary.Overall,
		OverallLabel:  summary.Label,
		Counts:        summary.Counts,
		Services:      services,
		Incidents:     s.incidents,
		Maintenances:  s.maintenances,
		Timeline:      timeline.Truncate(events, statusPageEvents),
		LastUpdated:   lastUpdated,
		GeneratedAt:   now,
	}
}

// TimelinePage is one page of the 30-day timeline.
type TimelinePage struct {
	Events []domain.TimelineEvent `json:"events"`
	Total  int                    `json:"total"`
	Skip   int                    `json:"skip"`
	Limit  int                    `json:"limit"`
}

// LoadTimeline returns a page of the last 30 days of upstream events merged
// with recorded status changes. skip and limit must already be validated.
func LoadTimeline(ctx context.Context, src TimelineSource, history HistoryReader, now time.Time, skip, limit int) (*TimelinePage, error) {
	cutoff := now.Add(-timelineWindow)

	var (
		services []domain.Service
		upstream []domain.TimelineEvent
		changes  []domain.ServiceStatusChange
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		services, err = src.PublicServices(gCtx)
		if err != nil {
			return fmt.Errorf("fetch services: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		upstream, err = fetchTimeline(gCtx, src)
		return err
	})

	if history != nil {
		g.Go(func() error {
			var err error
			changes, err = history.ListChanges(gCtx, cutoff, maxRecordedEvents)
			if err != nil {
				return fmt.Errorf("fetch status changes: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := timeline.Compose(upstream, timeline.FromStatusChanges(changes))
	events = timeline.Since(events, cutoff)
	events = timeline.WithServiceNames(events, services)

	return &TimelinePage{
		Events: timeline.Paginate(events, skip, limit),
		Total:  len(events),
		Skip:   skip,
		Limit:  limit,
	}, nil
}

// fetchTimeline pages through the upstream timeline until a short page or
// maxUpstreamEvents.
func fetchTimeline(ctx context.Context, src TimelineSource) ([]domain.TimelineEvent, error) {
	var all []domain.TimelineEvent
	for len(all) < maxUpstreamEvents {
		page, err := src.PublicTimeline(ctx, apiclient.TimelineQuery{Skip: len(all), Limit: timelinePageSize})
		if err != nil {
			return nil, fmt.Errorf("fetch timeline: %w", err)
		}
		all = append(all, page...)
		if len(page) < timelinePageSize {
			break
		}
	}
	return all, nil
}
