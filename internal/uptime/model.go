package uptime

import (
	"time"

	"github.com/bissquit/statusdash/internal/domain"
)

// Model is the display-ready uptime view of one service for one period.
type Model struct {
	Period Period                `json:"period"`
	Points []domain.UptimeSample `json:"points"`
	Stats  domain.UptimeStats    `json:"stats"`
	Health Health                `json:"health"`
	Trend  Trend                 `json:"trend"`
}

// NewModel builds a model from any sample set, whether fetched or supplied
// by the caller.
func NewModel(period Period, samples []domain.UptimeSample, now time.Time) Model {
	stats := ComputeStats(samples, now)
	return Model{
		Period: period,
		Points: Bucketize(samples, period),
		Stats:  stats,
		Health: Classify(stats.CurrentUptimePercentage),
		Trend:  Trend(stats.Trend),
	}
}

// FromMetrics builds a model from an upstream metrics payload. The
// upstream statistics cover all windows regardless of period, so they are
// kept and only the chart series, health and trend are derived here.
func FromMetrics(period Period, m *domain.UptimeMetrics) Model {
	stats := m.CurrentStats
	trend := TrendOf(stats.Uptime7d, stats.Uptime30d)
	stats.Trend = string(trend)

	return Model{
		Period: period,
		Points: Bucketize(m.GraphData, period),
		Stats:  stats,
		Health: Classify(stats.CurrentUptimePercentage),
		Trend:  trend,
	}
}
