package gateway

import (
	"net/http"
	"strconv"

	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/status"
)

// GetStatus handles GET /status request.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.LoadStatusPage(r.Context(), h.client, h.history, h.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, page)
}

// GetTimeline handles GET /timeline request.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	limit := DefaultTimelineLimit
	skip := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > MaxTimelineLimit {
			httputil.Error(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	if s := r.URL.Query().Get("skip"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			httputil.Error(w, http.StatusBadRequest, "skip must be a non-negative integer")
			return
		}
		skip = parsed
	}

	page, err := dashboard.LoadTimeline(r.Context(), h.client, h.history, h.now(), skip, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, page)
}

// GetService handles GET /services/{id} request.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	svc, err := h.client.PublicService(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, dashboard.ServiceView{
		Service:     *svc,
		StatusLabel: status.Label(string(svc.Status)),
	})
}

// GetIncident handles GET /incidents/{id} request.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	inc, err := h.client.PublicIncident(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, inc)
}

// GetMaintenance handles GET /maintenances/{id} request.
func (h *Handler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	m, err := h.client.PublicMaintenance(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, m)
}
