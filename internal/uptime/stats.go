package uptime

import (
	"time"

	"github.com/bissquit/statusdash/internal/domain"
)

// StatusUnknown is reported when no sample carries a status.
const StatusUnknown = "unknown"

// ComputeStats derives summary statistics from samples as of now.
//
// Each window covers [now-window, now]. A window without samples averages
// to 100. The current uptime equals the 24h value and the average response
// time is taken over the 24h window.
func ComputeStats(samples []domain.UptimeSample, now time.Time) domain.UptimeStats {
	u24 := windowAverage(samples, now, Period24h.Window())
	u7 := windowAverage(samples, now, Period7d.Window())
	u30 := windowAverage(samples, now, Period30d.Window())

	return domain.UptimeStats{
		CurrentUptimePercentage: u24,
		Uptime24h:               u24,
		Uptime7d:                u7,
		Uptime30d:               u30,
		AvgResponseTime:         windowResponseTime(samples, now, Period24h.Window()),
		CurrentStatus:           latestStatus(samples, now),
		Trend:                   string(TrendOf(u7, u30)),
	}
}

// ApplyIncidents fills the incident counters and last incident of stats
// from incidents of the same service. LastIncident is left nil when no
// incident falls in the 30d window.
func ApplyIncidents(stats domain.UptimeStats, incidents []domain.Incident, now time.Time) domain.UptimeStats {
	stats.TotalIncidents24h = 0
	stats.TotalIncidents7d = 0
	stats.TotalIncidents30d = 0
	stats.LastIncident = nil

	for _, inc := range incidents {
		if stats.ServiceID != 0 && inc.ServiceID != stats.ServiceID {
			continue
		}
		if !inWindow(inc.CreatedAt, now, Period30d.Window()) {
			continue
		}
		stats.TotalIncidents30d++
		if inWindow(inc.CreatedAt, now, Period7d.Window()) {
			stats.TotalIncidents7d++
		}
		if inWindow(inc.CreatedAt, now, Period24h.Window()) {
			stats.TotalIncidents24h++
		}
		if stats.LastIncident == nil || inc.CreatedAt.After(*stats.LastIncident) {
			created := inc.CreatedAt
			stats.LastIncident = &created
		}
	}
	return stats
}

func inWindow(t, now time.Time, window time.Duration) bool {
	return !t.Before(now.Add(-window)) && !t.After(now)
}

func windowAverage(samples []domain.UptimeSample, now time.Time, window time.Duration) float64 {
	var sum float64
	var n int
	for _, s := range samples {
		if inWindow(s.Timestamp, now, window) {
			sum += s.UptimePercentage
			n++
		}
	}
	if n == 0 {
		return 100
	}
	return sum / float64(n)
}

func windowResponseTime(samples []domain.UptimeSample, now time.Time, window time.Duration) *float64 {
	var sum float64
	var n int
	for _, s := range samples {
		if s.ResponseTimeMS != nil && inWindow(s.Timestamp, now, window) {
			sum += *s.ResponseTimeMS
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func latestStatus(samples []domain.UptimeSample, now time.Time) string {
	var latest *domain.UptimeSample
	for i := range samples {
		s := &samples[i]
		if s.Timestamp.After(now) || s.Status == "" {
			continue
		}
		if latest == nil || s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return StatusUnknown
	}
	return latest.Status
}
