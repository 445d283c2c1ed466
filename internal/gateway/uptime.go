package gateway

import (
	"net/http"

	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/status"
	"github.com/bissquit/statusdash/internal/uptime"
)

// UptimeCard is one service on the uptime overview.
type UptimeCard struct {
	domain.UptimeStats
	StatusLabel string        `json:"status_label"`
	Health      uptime.Health `json:"health"`
}

// UptimeOverview handles GET /uptime/overview request.
func (h *Handler) UptimeOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.upstream(r).UptimeOverview(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards := make([]UptimeCard, 0, len(stats))
	for _, s := range stats {
		s.Trend = string(uptime.TrendOf(s.Uptime7d, s.Uptime30d))
		cards = append(cards, UptimeCard{
			UptimeStats: s,
			StatusLabel: status.Label(s.CurrentStatus),
			Health:      uptime.Classify(s.CurrentUptimePercentage),
		})
	}
	httputil.Success(w, http.StatusOK, cards)
}

// ServiceUptime handles GET /uptime/services/{id} request.
func (h *Handler) ServiceUptime(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	period, err := uptime.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "period must be one of 24h, 7d, 30d")
		return
	}

	view := dashboard.NewUptimeView(h.upstream(r), id)
	snap, err := view.Select(r.Context(), period)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, snap)
}
