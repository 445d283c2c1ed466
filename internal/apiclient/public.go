package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/uptime"
)

// PublicStatus returns the unauthenticated status overview.
func (c *Client) PublicStatus(ctx context.Context) (*domain.StatusOverview, error) {
	var out domain.StatusOverview
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/public/status", path: "/public/status"}, &out); err != nil {
		return nil, err
	}
	out.Services = keepValid(ctx, "/public/status", out.Services)
	out.Incidents = keepValid(ctx, "/public/status", out.Incidents)
	out.Maintenances = keepValid(ctx, "/public/status", out.Maintenances)
	return &out, nil
}

// PublicServices returns all active services.
func (c *Client) PublicServices(ctx context.Context) ([]domain.Service, error) {
	return getList[domain.Service](ctx, c, request{method: http.MethodGet, endpoint: "/public/services", path: "/public/services"})
}

// PublicService returns one service.
func (c *Client) PublicService(ctx context.Context, id int64) (*domain.Service, error) {
	return getOne[domain.Service](ctx, c, request{
		method: http.MethodGet, endpoint: "/public/services/{id}", path: idPath("/public/services/%d", id),
	})
}

// ActiveIncidents returns the incidents currently in progress.
func (c *Client) ActiveIncidents(ctx context.Context) ([]domain.Incident, error) {
	return getList[domain.Incident](ctx, c, request{
		method: http.MethodGet, endpoint: "/public/incidents/active", path: "/public/incidents/active",
	})
}

// PublicIncident returns one incident with its updates.
func (c *Client) PublicIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	return getOne[domain.Incident](ctx, c, request{
		method: http.MethodGet, endpoint: "/public/incidents/{id}", path: idPath("/public/incidents/%d", id),
	})
}

// ActiveMaintenances returns maintenances that are in progress or still
// scheduled. Ended maintenances only appear in PublicTimeline.
func (c *Client) ActiveMaintenances(ctx context.Context) ([]domain.Maintenance, error) {
	return getList[domain.Maintenance](ctx, c, request{
		method: http.MethodGet, endpoint: "/public/maintenances/active", path: "/public/maintenances/active",
	})
}

// PublicMaintenance returns one maintenance.
func (c *Client) PublicMaintenance(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return getOne[domain.Maintenance](ctx, c, request{
		method: http.MethodGet, endpoint: "/public/maintenances/{id}", path: idPath("/public/maintenances/%d", id),
	})
}

// PublicTimeline returns one page of the backend's 30-day timeline:
// incidents, incident updates and maintenances, newest first.
func (c *Client) PublicTimeline(ctx context.Context, q TimelineQuery) ([]domain.TimelineEvent, error) {
	if err := c.check(q); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("skip", strconv.Itoa(q.Skip))
	query.Set("limit", strconv.Itoa(q.Limit))

	var events []domain.TimelineEvent
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/public/timeline", path: "/public/timeline", query: query}, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return events, nil
}

// UptimeOverview returns uptime statistics for every service visible to the user.
func (c *Client) UptimeOverview(ctx context.Context) ([]domain.UptimeStats, error) {
	return getList[domain.UptimeStats](ctx, c, request{method: http.MethodGet, endpoint: "/uptime/overview", path: "/uptime/overview"})
}

// ServiceMetrics returns the uptime series and statistics of one service.
func (c *Client) ServiceMetrics(ctx context.Context, serviceID int64, period uptime.Period) (*domain.UptimeMetrics, error) {
	p, err := uptime.ParsePeriod(string(period))
	if err != nil {
		return nil, &ValidationError{Message: err.Error(), Fields: []FieldError{{Field: "period", Message: "oneof"}}}
	}

	query := url.Values{}
	query.Set("period", p.String())

	return getOne[domain.UptimeMetrics](ctx, c, request{
		method:   http.MethodGet,
		endpoint: "/uptime/services/{id}/metrics",
		path:     idPath("/uptime/services/%d/metrics", serviceID),
		query:    query,
	})
}
