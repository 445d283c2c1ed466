package domain

import "time"

// TimelineEventType identifies the source stream of a timeline event.
type TimelineEventType string

// Timeline event types.
const (
	TimelineEventIncident            TimelineEventType = "incident"
	TimelineEventMaintenance         TimelineEventType = "maintenance"
	TimelineEventServiceStatusChange TimelineEventType = "service_status_change"
	TimelineEventIncidentUpdate      TimelineEventType = "incident_update"
)

// TimelineEvent is a read-only projection of an incident, maintenance,
// incident update or status change. It is derived on every fetch.
type TimelineEvent struct {
	Type        TimelineEventType `json:"type"`
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	ServiceID   *int64            `json:"service_id,omitempty"`
	ServiceName string            `json:"service_name,omitempty"`
	ParentID    *int64            `json:"parent_id,omitempty"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
}

// StatusOverview is the public status payload.
type StatusOverview struct {
	Services      []Service       `json:"services"`
	Incidents     []Incident      `json:"incidents"`
	Maintenances  []Maintenance   `json:"maintenances"`
	Timeline      []TimelineEvent `json:"timeline"`
	OverallStatus string          `json:"overall_status,omitempty"`
	LastUpdated   *time.Time      `json:"last_updated,omitempty"`
}
