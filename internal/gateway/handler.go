// Package gateway serves display-ready dashboard data to the browser and
// proxies management actions to the status backend.
package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// Pagination constants.
const (
	DefaultTimelineLimit = 20
	MaxTimelineLimit     = 100
)

const defaultPushInterval = 30 * time.Second

// Config holds gateway settings.
type Config struct {
	// PushInterval is how often the status stream refreshes.
	PushInterval time.Duration
	// AllowedOrigins may open websocket streams in addition to same-host pages.
	AllowedOrigins []string
}

// Handler handles HTTP requests for the dashboard API.
type Handler struct {
	client    *apiclient.Client
	history   dashboard.HistoryReader
	config    Config
	validator *validator.Validate
	upgrader  websocket.Upgrader
	now       func() time.Time
}

// NewHandler creates a new gateway handler. history may be nil, in which
// case the timeline carries no recorded status changes.
func NewHandler(client *apiclient.Client, history dashboard.HistoryReader, config Config) *Handler {
	if config.PushInterval <= 0 {
		config.PushInterval = defaultPushInterval
	}
	return &Handler{
		client:    client,
		history:   history,
		config:    config,
		validator: validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(config.AllowedOrigins),
		},
		now: time.Now,
	}
}

// RegisterRoutes registers the request/response routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)

	r.Get("/status", h.GetStatus)
	r.Get("/timeline", h.GetTimeline)
	r.Get("/services/{id}", h.GetService)
	r.Get("/incidents/{id}", h.GetIncident)
	r.Get("/maintenances/{id}", h.GetMaintenance)

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)
		r.Get("/session", h.GetSession)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuthenticated)
			r.Get("/uptime/overview", h.UptimeOverview)
			r.Get("/uptime/services/{id}", h.ServiceUptime)
			r.Get("/services", h.ListServices)
			r.Get("/incidents", h.ListIncidents)
			r.Get("/incidents/{id}/updates", h.ListIncidentUpdates)
			r.Get("/maintenances", h.ListMaintenances)
			r.Get("/organizations", h.ListOrganizations)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireCapability((*session.Session).IsManagerOrAdmin))
			r.Post("/services", h.CreateService)
			r.Put("/services/{id}", h.UpdateService)
			r.Delete("/services/{id}", h.DeleteService)
			r.Post("/incidents", h.CreateIncident)
			r.Put("/incidents/{id}", h.UpdateIncident)
			r.Delete("/incidents/{id}", h.DeleteIncident)
			r.Post("/incidents/{id}/updates", h.CreateIncidentUpdate)
			r.Post("/maintenances", h.CreateMaintenance)
			r.Put("/maintenances/{id}", h.UpdateMaintenance)
			r.Delete("/maintenances/{id}", h.DeleteMaintenance)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireCapability((*session.Session).IsAdmin))
			r.Get("/users", h.ListUsers)
			r.Put("/users/{id}/role", h.UpdateUserRole)
			r.Put("/users/{id}/organization", h.UpdateUserOrganization)
			r.Put("/organizations/{id}", h.UpdateOrganization)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireCapability((*session.Session).IsSuperuser))
			r.Post("/organizations", h.CreateOrganization)
			r.Delete("/organizations/{id}", h.DeleteOrganization)
		})
	})
}

// RegisterStreamRoutes registers the websocket routes. They must be mounted
// outside any request timeout middleware.
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/ws/status", h.StatusStream)

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)
		r.Use(RequireAuthenticated)
		r.Get("/ws/uptime/{id}", h.UptimeStream)
	})
}

// upstream returns a client that authenticates as the request's session.
func (h *Handler) upstream(r *http.Request) *apiclient.Client {
	return h.client.WithTokenSource(session.FromContext(r.Context()))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		httputil.ValidationError(w, err)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. It writes a 400 response and
// returns false when the parameter is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
