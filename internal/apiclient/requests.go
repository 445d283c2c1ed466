package apiclient

import (
	"time"

	"github.com/bissquit/statusdash/internal/domain"
)

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

// AuthResponse is returned by login and register. User may be nil when
// the backend only returns a token.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type,omitempty"`
	User        *domain.User `json:"user,omitempty"`
}

// ServiceInput is the body of service create and update calls.
type ServiceInput struct {
	Name           string               `json:"name" validate:"required,max=255"`
	Description    string               `json:"description,omitempty"`
	Status         domain.ServiceStatus `json:"status,omitempty" validate:"omitempty,oneof=operational degraded partial_outage major_outage maintenance"`
	IsActive       *bool                `json:"is_active,omitempty"`
	OrganizationID *int64               `json:"organization_id,omitempty"`
}

// IncidentInput is the body of incident create and update calls.
type IncidentInput struct {
	Title       string                `json:"title" validate:"required,max=255"`
	Description string                `json:"description,omitempty"`
	Status      domain.IncidentStatus `json:"status,omitempty" validate:"omitempty,oneof=investigating identified monitoring resolved"`
	Type        domain.IncidentType   `json:"type,omitempty" validate:"omitempty,oneof=incident maintenance"`
	ServiceID   int64                 `json:"service_id" validate:"required,gt=0"`
	IsActive    *bool                 `json:"is_active,omitempty"`
}

// IncidentUpdateInput is the body of POST /incidents/{id}/updates.
type IncidentUpdateInput struct {
	Message string                 `json:"message" validate:"required"`
	Status  *domain.IncidentStatus `json:"status,omitempty" validate:"omitempty,oneof=investigating identified monitoring resolved"`
}

// MaintenanceInput is the body of maintenance create and update calls.
type MaintenanceInput struct {
	Title          string                   `json:"title" validate:"required,max=255"`
	Description    string                   `json:"description,omitempty"`
	Status         domain.MaintenanceStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	ScheduledStart time.Time                `json:"scheduled_start" validate:"required"`
	ScheduledEnd   time.Time                `json:"scheduled_end" validate:"required,gtfield=ScheduledStart"`
	ServiceID      int64                    `json:"service_id" validate:"required,gt=0"`
	IsActive       *bool                    `json:"is_active,omitempty"`
}

// OrganizationInput is the body of organization create and update calls.
// An empty slug on create is derived from the name.
type OrganizationInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// RoleUpdate is the body of PUT /users/{id}/role.
type RoleUpdate struct {
	Role domain.Role `json:"role" validate:"required,oneof=admin manager viewer"`
}

// OrganizationAssignment is the body of PUT /users/{id}/organization.
// A nil OrganizationID detaches the user.
type OrganizationAssignment struct {
	OrganizationID *int64 `json:"organization_id"`
}

// TimelineQuery selects a page of the public timeline.
type TimelineQuery struct {
	Skip  int `validate:"gte=0"`
	Limit int `validate:"gte=1,lte=100"`
}
