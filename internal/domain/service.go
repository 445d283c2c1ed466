package domain

import (
	"fmt"
	"time"
)

// ServiceStatus represents the operational status of a service.
type ServiceStatus string

// Service statuses.
const (
	ServiceStatusOperational   ServiceStatus = "operational"
	ServiceStatusDegraded      ServiceStatus = "degraded"
	ServiceStatusPartialOutage ServiceStatus = "partial_outage"
	ServiceStatusMajorOutage   ServiceStatus = "major_outage"
	ServiceStatusMaintenance   ServiceStatus = "maintenance"
)

// IsValid checks if the service status is valid.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusOperational, ServiceStatusDegraded,
		ServiceStatusPartialOutage, ServiceStatusMajorOutage,
		ServiceStatusMaintenance:
		return true
	}
	return false
}

// Service represents a monitored service.
type Service struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Status         ServiceStatus `json:"status"`
	IsActive       bool          `json:"is_active"`
	OrganizationID *int64        `json:"organization_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Validate checks the fields an upstream payload must carry.
func (s *Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service %d: empty name", s.ID)
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("service %d: unknown status %q", s.ID, s.Status)
	}
	return nil
}

// ServiceStatusChange is an observed transition of a service's status.
type ServiceStatusChange struct {
	ID          string         `json:"id"`
	ServiceID   int64          `json:"service_id"`
	ServiceName string         `json:"service_name"`
	OldStatus   *ServiceStatus `json:"old_status,omitempty"`
	NewStatus   ServiceStatus  `json:"new_status"`
	ObservedAt  time.Time      `json:"observed_at"`
}
