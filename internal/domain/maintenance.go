package domain

import (
	"fmt"
	"time"
)

// MaintenanceStatus represents the lifecycle state of a maintenance window.
type MaintenanceStatus string

// Maintenance statuses.
const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

// IsValid checks if the maintenance status is valid.
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress,
		MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// Maintenance is a scheduled window of planned disruption.
type Maintenance struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         MaintenanceStatus `json:"status"`
	ScheduledStart time.Time         `json:"scheduled_start"`
	ScheduledEnd   time.Time         `json:"scheduled_end"`
	ServiceID      int64             `json:"service_id"`
	IsActive       bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Validate checks the status value and the window bounds.
func (m *Maintenance) Validate() error {
	if !m.Status.IsValid() {
		return fmt.Errorf("maintenance %d: unknown status %q", m.ID, m.Status)
	}
	if m.ScheduledEnd.Before(m.ScheduledStart) {
		return fmt.Errorf("maintenance %d: scheduled_end before scheduled_start", m.ID)
	}
	return nil
}
