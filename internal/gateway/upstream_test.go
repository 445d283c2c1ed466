package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/go-chi/chi/v5"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeUpstream is an in-memory status backend keyed by opaque tokens.
type fakeUpstream struct {
	mu           sync.Mutex
	users        map[string]domain.User
	services     []domain.Service
	incidents    []domain.Incident
	maintenances []domain.Maintenance
	timeline     []domain.TimelineEvent
	stats        []domain.UptimeStats
	metrics      map[string]domain.UptimeMetrics // by period
	calls        map[string]int
}

func newFakeUpstream() *fakeUpstream {
	org := int64(1)
	api, database, incidentID := int64(1), int64(2), int64(10)
	maintenanceEnd := t0.Add(time.Hour)
	return &fakeUpstream{
		users: map[string]domain.User{
			"viewer-token":  {ID: 1, Email: "viewer@example.com", Role: domain.RoleViewer, IsActive: true},
			"manager-token": {ID: 2, Email: "manager@example.com", Role: domain.RoleManager, IsActive: true},
			"admin-token":   {ID: 3, Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true, OrganizationID: &org},
			"super-token":   {ID: 4, Email: "root@example.com", Role: domain.RoleViewer, IsSuperuser: true, IsActive: true},
		},
		services: []domain.Service{
			{ID: 1, Name: "API", Status: domain.ServiceStatusOperational, IsActive: true, CreatedAt: t0.Add(-48 * time.Hour), UpdatedAt: t0.Add(-time.Hour)},
			{ID: 2, Name: "Database", Status: domain.ServiceStatusMajorOutage, IsActive: true, CreatedAt: t0.Add(-48 * time.Hour), UpdatedAt: t0.Add(-10 * time.Minute)},
		},
		incidents: []domain.Incident{{
			ID: 10, Title: "Database down", Status: domain.IncidentStatusInvestigating, Type: domain.IncidentTypeIncident,
			ServiceID: 2, IsActive: true, CreatedAt: t0.Add(-30 * time.Minute), UpdatedAt: t0.Add(-5 * time.Minute),
			Updates: []domain.IncidentUpdate{{ID: 100, IncidentID: 10, Message: "Failing over", CreatedAt: t0.Add(-5 * time.Minute)}},
		}},
		maintenances: []domain.Maintenance{{
			ID: 20, Title: "Network upgrade", Status: domain.MaintenanceStatusScheduled, ServiceID: 1, IsActive: true,
			ScheduledStart: t0.Add(-2 * time.Hour), ScheduledEnd: t0.Add(time.Hour), CreatedAt: t0.Add(-72 * time.Hour), UpdatedAt: t0.Add(-72 * time.Hour),
		}},
		timeline: []domain.TimelineEvent{
			{Type: domain.TimelineEventIncidentUpdate, ID: 100, Title: "Database down", Description: "Failing over", Status: "investigating", Timestamp: t0.Add(-5 * time.Minute), ServiceID: &database, ParentID: &incidentID},
			{Type: domain.TimelineEventIncident, ID: 10, Title: "Database down", Status: "investigating", Timestamp: t0.Add(-30 * time.Minute), ServiceID: &database},
			{Type: domain.TimelineEventMaintenance, ID: 20, Title: "Network upgrade", Status: "scheduled", Timestamp: t0.Add(-2 * time.Hour), ServiceID: &api, EndTime: &maintenanceEnd},
		},
		stats: []domain.UptimeStats{
			{ServiceID: 1, ServiceName: "API", CurrentUptimePercentage: 99.9, Uptime24h: 99.9, Uptime7d: 99.8, Uptime30d: 99.5, CurrentStatus: "operational"},
			{ServiceID: 2, ServiceName: "Database", CurrentUptimePercentage: 94, Uptime24h: 94, Uptime7d: 97, Uptime30d: 99, CurrentStatus: "major_outage"},
		},
		metrics: map[string]domain.UptimeMetrics{
			"24h": metricsFixture("24h", time.Hour, 24),
			"7d":  metricsFixture("7d", 4*time.Hour, 42),
			"30d": metricsFixture("30d", 24*time.Hour, 30),
		},
		calls: map[string]int{},
	}
}

func metricsFixture(period string, step time.Duration, n int) domain.UptimeMetrics {
	samples := make([]domain.UptimeSample, 0, n)
	for i := n - 1; i >= 0; i-- {
		samples = append(samples, domain.UptimeSample{
			Timestamp:        t0.Add(-time.Duration(i) * step),
			UptimePercentage: 99.9,
			Status:           "operational",
		})
	}
	return domain.UptimeMetrics{
		ServiceID:   1,
		ServiceName: "API",
		CurrentStats: domain.UptimeStats{
			ServiceID: 1, ServiceName: "API", CurrentUptimePercentage: 99.9,
			Uptime24h: 99.9, Uptime7d: 99.9, Uptime30d: 99.7, CurrentStatus: "operational",
		},
		GraphData: samples,
		Period:    period,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// timelinePage applies the skip and limit query parameters to events.
func timelinePage(r *http.Request, events []domain.TimelineEvent) []domain.TimelineEvent {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 20
	}
	if skip >= len(events) {
		return []domain.TimelineEvent{}
	}
	return events[skip:min(skip+limit, len(events))]
}

func (f *fakeUpstream) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[r.Method+" "+chi.RouteContext(r.Context()).RoutePattern()]++
}

func (f *fakeUpstream) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeUpstream) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, ok := f.users[token]; !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	}
}

func (f *fakeUpstream) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			f.record(r)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/public/services", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, f.services) })
		r.Get("/public/services/{id}", func(w http.ResponseWriter, r *http.Request) {
			for _, s := range f.services {
				if chi.URLParam(r, "id") == jsonID(s.ID) {
					writeJSON(w, http.StatusOK, s)
					return
				}
			}
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Service not found"})
		})
		r.Get("/public/incidents/active", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, f.incidents) })
		r.Get("/public/maintenances/active", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, f.maintenances) })
		r.Get("/public/timeline", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, timelinePage(r, f.timeline)) })

		r.Post("/users/login", func(w http.ResponseWriter, r *http.Request) {
			var in apiclient.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "manager-token", "token_type": "bearer"})
		})
		r.Get("/users/me", f.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, f.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")])
		}))

		r.Get("/uptime/overview", f.authed(func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, f.stats) }))
		r.Get("/uptime/services/{id}/metrics", f.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, f.metrics[r.URL.Query().Get("period")])
		}))

		r.Post("/services", f.authed(func(w http.ResponseWriter, r *http.Request) {
			var in apiclient.ServiceInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Name == "Duplicate" {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"detail": []map[string]any{{"loc": []any{"body", "name"}, "msg": "already exists", "type": "value_error"}},
				})
				return
			}
			writeJSON(w, http.StatusCreated, domain.Service{ID: 3, Name: in.Name, Status: domain.ServiceStatusOperational, IsActive: true, CreatedAt: t0, UpdatedAt: t0})
		}))
		r.Put("/users/{id}/role", f.authed(func(w http.ResponseWriter, r *http.Request) {
			var in apiclient.RoleUpdate
			_ = json.NewDecoder(r.Body).Decode(&in)
			writeJSON(w, http.StatusOK, domain.User{ID: 5, Email: "someone@example.com", Role: in.Role, IsActive: true})
		}))
		r.Delete("/organizations/{id}", f.authed(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	})
	return r
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func startUpstream(t *testing.T, f *fakeUpstream) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(f.router())
	t.Cleanup(server.Close)
	return server
}
