package domain

import (
	"fmt"
	"time"
)

// UptimeSample is one point of a service's uptime time series.
type UptimeSample struct {
	Timestamp        time.Time `json:"timestamp"`
	UptimePercentage float64   `json:"uptime_percentage"`
	Status           string    `json:"status"`
	ResponseTimeMS   *float64  `json:"response_time,omitempty"`
}

// Validate checks the percentage range.
func (s *UptimeSample) Validate() error {
	if s.UptimePercentage < 0 || s.UptimePercentage > 100 {
		return fmt.Errorf("uptime sample at %s: percentage %v out of range", s.Timestamp.Format(time.RFC3339), s.UptimePercentage)
	}
	return nil
}

// UptimeStats is the derived aggregate for one service.
type UptimeStats struct {
	ServiceID               int64      `json:"service_id"`
	ServiceName             string     `json:"service_name"`
	CurrentUptimePercentage float64    `json:"current_uptime_percentage"`
	Uptime24h               float64    `json:"uptime_24h"`
	Uptime7d                float64    `json:"uptime_7d"`
	Uptime30d               float64    `json:"uptime_30d"`
	AvgResponseTime         *float64   `json:"avg_response_time,omitempty"`
	TotalIncidents24h       int        `json:"total_incidents_24h"`
	TotalIncidents7d        int        `json:"total_incidents_7d"`
	TotalIncidents30d       int        `json:"total_incidents_30d"`
	CurrentStatus           string     `json:"current_status"`
	LastIncident            *time.Time `json:"last_incident,omitempty"`
	Trend                   string     `json:"trend,omitempty"`
}

// Validate checks the percentage ranges.
func (s *UptimeStats) Validate() error {
	for _, v := range []float64{s.CurrentUptimePercentage, s.Uptime24h, s.Uptime7d, s.Uptime30d} {
		if v < 0 || v > 100 {
			return fmt.Errorf("uptime stats for service %d: percentage %v out of range", s.ServiceID, v)
		}
	}
	return nil
}

// UptimeMetrics is the per-service metrics payload for one period.
type UptimeMetrics struct {
	ServiceID    int64          `json:"service_id"`
	ServiceName  string         `json:"service_name"`
	CurrentStats UptimeStats    `json:"current_stats"`
	GraphData    []UptimeSample `json:"graph_data"`
	Period       string         `json:"period"`
}

// Validate checks the stats and every sample.
func (m *UptimeMetrics) Validate() error {
	if err := m.CurrentStats.Validate(); err != nil {
		return err
	}
	for i := range m.GraphData {
		if err := m.GraphData[i].Validate(); err != nil {
			return fmt.Errorf("service %d: %w", m.ServiceID, err)
		}
	}
	return nil
}
