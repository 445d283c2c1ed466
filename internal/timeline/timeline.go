// Package timeline merges incidents, maintenances, incident updates and
// service status changes into one chronologically ordered event list.
package timeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
)

// Pagination defaults for timeline listings.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Build projects incidents and maintenances into timeline events, newest first.
// The output always has len(incidents)+len(maintenances) entries.
func Build(incidents []domain.Incident, maintenances []domain.Maintenance) []domain.TimelineEvent {
	return Compose(FromIncidents(incidents), FromMaintenances(maintenances))
}

// Compose concatenates event streams in argument order and sorts the result
// newest first. Events with equal timestamps keep their concatenated order.
// Duplicates are kept.
func Compose(streams ...[]domain.TimelineEvent) []domain.TimelineEvent {
	n := 0
	for _, s := range streams {
		n += len(s)
	}

	out := make([]domain.TimelineEvent, 0, n)
	for _, s := range streams {
		out = append(out, s...)
	}

	slices.SortStableFunc(out, func(a, b domain.TimelineEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// FromIncidents anchors each incident at its creation time. Maintenance-typed
// incidents are emitted as maintenance events.
func FromIncidents(incidents []domain.Incident) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(incidents))
	for _, inc := range incidents {
		eventType := domain.TimelineEventIncident
		if inc.Type == domain.IncidentTypeMaintenance {
			eventType = domain.TimelineEventMaintenance
		}
		out = append(out, domain.TimelineEvent{
			Type:        eventType,
			ID:          inc.ID,
			Title:       inc.Title,
			Description: inc.Description,
			Status:      string(inc.Status),
			Timestamp:   inc.CreatedAt,
			ServiceID:   ptr(inc.ServiceID),
		})
	}
	return out
}

// FromMaintenances anchors each maintenance at its scheduled start.
func FromMaintenances(maintenances []domain.Maintenance) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(maintenances))
	for _, m := range maintenances {
		out = append(out, domain.TimelineEvent{
			Type:        domain.TimelineEventMaintenance,
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Status:      string(m.Status),
			Timestamp:   m.ScheduledStart,
			ServiceID:   ptr(m.ServiceID),
			EndTime:     ptr(m.ScheduledEnd),
		})
	}
	return out
}

// FromLatestUpdates emits the most recent update of every incident that has one.
func FromLatestUpdates(incidents []domain.Incident) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(incidents))
	for i := range incidents {
		if u := incidents[i].LatestUpdate(); u != nil {
			out = append(out, updateEvent(&incidents[i], u))
		}
	}
	return out
}

func updateEvent(inc *domain.Incident, u *domain.IncidentUpdate) domain.TimelineEvent {
	st := string(inc.Status)
	if u.Status != nil {
		st = string(*u.Status)
	}
	return domain.TimelineEvent{
		Type:        domain.TimelineEventIncidentUpdate,
		ID:          u.ID,
		Title:       "Update: " + inc.Title,
		Description: u.Message,
		Status:      st,
		Timestamp:   u.CreatedAt,
		ServiceID:   ptr(inc.ServiceID),
		ParentID:    ptr(inc.ID),
	}
}

// FromStatusChanges emits one event per recorded service status transition.
func FromStatusChanges(changes []domain.ServiceStatusChange) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(changes))
	for _, c := range changes {
		desc := fmt.Sprintf("Status set to %s", status.Label(string(c.NewStatus)))
		if c.OldStatus != nil {
			desc = fmt.Sprintf("Status changed from %s to %s",
				status.Label(string(*c.OldStatus)), status.Label(string(c.NewStatus)))
		}
		out = append(out, domain.TimelineEvent{
			Type:        domain.TimelineEventServiceStatusChange,
			ID:          c.ServiceID,
			Title:       fmt.Sprintf("%s is %s", c.ServiceName, status.Label(string(c.NewStatus))),
			Description: desc,
			Status:      string(c.NewStatus),
			Timestamp:   c.ObservedAt,
			ServiceID:   ptr(c.ServiceID),
			ServiceName: c.ServiceName,
		})
	}
	return out
}

// Since keeps events that started or ended at or after the cutoff.
func Since(events []domain.TimelineEvent, cutoff time.Time) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(events))
	for _, e := range events {
		if !e.Timestamp.Before(cutoff) || (e.EndTime != nil && !e.EndTime.Before(cutoff)) {
			out = append(out, e)
		}
	}
	return out
}

// WithServiceNames fills in service names from the given services. Events
// that already carry a name or reference an unknown service are left as is.
func WithServiceNames(events []domain.TimelineEvent, services []domain.Service) []domain.TimelineEvent {
	names := make(map[int64]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.Name
	}

	out := slices.Clone(events)
	for i := range out {
		if out[i].ServiceName != "" || out[i].ServiceID == nil {
			continue
		}
		out[i].ServiceName = names[*out[i].ServiceID]
	}
	return out
}

// Truncate returns at most n events.
func Truncate(events []domain.TimelineEvent, n int) []domain.TimelineEvent {
	if len(events) > n {
		return events[:n]
	}
	return events
}

// Paginate returns the window [skip, skip+limit) of events.
func Paginate(events []domain.TimelineEvent, skip, limit int) []domain.TimelineEvent {
	if skip >= len(events) {
		return []domain.TimelineEvent{}
	}
	end := min(skip+limit, len(events))
	return events[skip:end]
}

func ptr[T any](v T) *T {
	return &v
}
