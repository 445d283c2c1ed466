package domain

import (
	"fmt"
	"time"
)

// Role determines which management screens a user may act on.
type Role string

// Roles.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// User is an account of the upstream backend.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           Role   `json:"role"`
	IsSuperuser    bool   `json:"is_superuser,omitempty"`
	IsActive       bool   `json:"is_active"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

// IsAdmin reports whether the user may perform admin actions.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// IsManagerOrAdmin reports whether the user may manage services, incidents and maintenances.
func (u *User) IsManagerOrAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager || u.IsSuperuser
}

// Validate checks the fields an upstream payload must carry.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("user %d: empty email", u.ID)
	}
	// Older backends omit role for viewers.
	if u.Role != "" && !u.Role.IsValid() {
		return fmt.Errorf("user %d: unknown role %q", u.ID, u.Role)
	}
	return nil
}

// Organization is a tenant boundary.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields an upstream payload must carry.
func (o *Organization) Validate() error {
	if o.Slug == "" {
		return fmt.Errorf("organization %d: empty slug", o.ID)
	}
	return nil
}
