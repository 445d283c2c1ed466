package domain

import (
	"fmt"
	"time"
)

// IncidentStatus represents the lifecycle state of an incident.
type IncidentStatus string

// Incident statuses.
const (
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusIdentified    IncidentStatus = "identified"
	IncidentStatusMonitoring    IncidentStatus = "monitoring"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// IsValid checks if the incident status is valid.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusInvestigating, IncidentStatusIdentified,
		IncidentStatusMonitoring, IncidentStatusResolved:
		return true
	}
	return false
}

// IncidentType distinguishes unplanned incidents from maintenance-flavored ones.
type IncidentType string

// Incident types.
const (
	IncidentTypeIncident    IncidentType = "incident"
	IncidentTypeMaintenance IncidentType = "maintenance"
)

// IsValid checks if the incident type is valid.
func (t IncidentType) IsValid() bool {
	return t == IncidentTypeIncident || t == IncidentTypeMaintenance
}

// Incident represents an event affecting one service.
type Incident struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         IncidentStatus   `json:"status"`
	Type           IncidentType     `json:"type"`
	ServiceID      int64            `json:"service_id"`
	OrganizationID *int64           `json:"organization_id,omitempty"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	ResolvedAt     *time.Time       `json:"resolved_at"`
	Updates        []IncidentUpdate `json:"updates,omitempty"`
}

// IsResolved returns true if the incident reached the resolved state.
func (i *Incident) IsResolved() bool {
	return i.Status == IncidentStatusResolved
}

// Normalize clears a stale resolved_at left behind when a resolved incident
// was reopened. It reports whether the incident was changed.
func (i *Incident) Normalize() bool {
	if i.ResolvedAt != nil && !i.IsResolved() && i.Status.IsValid() {
		i.ResolvedAt = nil
		return true
	}
	return false
}

// Validate checks enum values and that resolved_at is set iff the incident is resolved.
func (i *Incident) Validate() error {
	if !i.Status.IsValid() {
		return fmt.Errorf("incident %d: unknown status %q", i.ID, i.Status)
	}
	if i.Type != "" && !i.Type.IsValid() {
		return fmt.Errorf("incident %d: unknown type %q", i.ID, i.Type)
	}
	if i.IsResolved() != (i.ResolvedAt != nil) {
		return fmt.Errorf("incident %d: resolved_at inconsistent with status %q", i.ID, i.Status)
	}
	for idx := range i.Updates {
		if err := i.Updates[idx].Validate(); err != nil {
			return fmt.Errorf("incident %d: %w", i.ID, err)
		}
	}
	return nil
}

// LatestUpdate returns the most recent update, or nil if there is none.
func (i *Incident) LatestUpdate() *IncidentUpdate {
	var latest *IncidentUpdate
	for idx := range i.Updates {
		u := &i.Updates[idx]
		if latest == nil || u.CreatedAt.After(latest.CreatedAt) {
			latest = u
		}
	}
	return latest
}

// IncidentUpdate is an append-only progress note on an incident.
type IncidentUpdate struct {
	ID         int64           `json:"id"`
	IncidentID int64           `json:"incident_id"`
	Message    string          `json:"message"`
	Status     *IncidentStatus `json:"status,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Validate checks the optional status value.
func (u *IncidentUpdate) Validate() error {
	if u.Status != nil && !u.Status.IsValid() {
		return fmt.Errorf("update %d: unknown status %q", u.ID, *u.Status)
	}
	return nil
}
