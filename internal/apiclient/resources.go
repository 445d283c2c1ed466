package apiclient

import (
	"context"
	"net/http"

	"github.com/bissquit/statusdash/internal/domain"
)

// ListServices returns the services visible to the current user.
func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	return getList[domain.Service](ctx, c, request{method: http.MethodGet, endpoint: "/services", path: "/services"})
}

// GetService returns one service.
func (c *Client) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return getOne[domain.Service](ctx, c, request{method: http.MethodGet, endpoint: "/services/{id}", path: idPath("/services/%d", id)})
}

// CreateService creates a service.
func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*domain.Service, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Service](ctx, c, request{method: http.MethodPost, endpoint: "/services", path: "/services", body: in})
}

// UpdateService replaces a service's editable fields.
func (c *Client) UpdateService(ctx context.Context, id int64, in ServiceInput) (*domain.Service, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Service](ctx, c, request{method: http.MethodPut, endpoint: "/services/{id}", path: idPath("/services/%d", id), body: in})
}

// DeleteService deletes a service.
func (c *Client) DeleteService(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "/services/{id}", path: idPath("/services/%d", id)}, nil)
}

// ListIncidents returns the incidents visible to the current user.
func (c *Client) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	return getList[domain.Incident](ctx, c, request{method: http.MethodGet, endpoint: "/incidents", path: "/incidents"})
}

// GetIncident returns one incident with its updates.
func (c *Client) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	return getOne[domain.Incident](ctx, c, request{method: http.MethodGet, endpoint: "/incidents/{id}", path: idPath("/incidents/%d", id)})
}

// CreateIncident opens an incident.
func (c *Client) CreateIncident(ctx context.Context, in IncidentInput) (*domain.Incident, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Incident](ctx, c, request{method: http.MethodPost, endpoint: "/incidents", path: "/incidents", body: in})
}

// UpdateIncident replaces an incident's editable fields.
func (c *Client) UpdateIncident(ctx context.Context, id int64, in IncidentInput) (*domain.Incident, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Incident](ctx, c, request{method: http.MethodPut, endpoint: "/incidents/{id}", path: idPath("/incidents/%d", id), body: in})
}

// DeleteIncident deletes an incident.
func (c *Client) DeleteIncident(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "/incidents/{id}", path: idPath("/incidents/%d", id)}, nil)
}

// ListIncidentUpdates returns the updates of an incident.
func (c *Client) ListIncidentUpdates(ctx context.Context, incidentID int64) ([]domain.IncidentUpdate, error) {
	return getList[domain.IncidentUpdate](ctx, c, request{
		method: http.MethodGet, endpoint: "/incidents/{id}/updates", path: idPath("/incidents/%d/updates", incidentID),
	})
}

// CreateIncidentUpdate appends an update to an incident.
func (c *Client) CreateIncidentUpdate(ctx context.Context, incidentID int64, in IncidentUpdateInput) (*domain.IncidentUpdate, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.IncidentUpdate](ctx, c, request{
		method: http.MethodPost, endpoint: "/incidents/{id}/updates", path: idPath("/incidents/%d/updates", incidentID), body: in,
	})
}

// ListMaintenances returns the maintenances visible to the current user.
func (c *Client) ListMaintenances(ctx context.Context) ([]domain.Maintenance, error) {
	return getList[domain.Maintenance](ctx, c, request{method: http.MethodGet, endpoint: "/maintenances", path: "/maintenances"})
}

// GetMaintenance returns one maintenance.
func (c *Client) GetMaintenance(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return getOne[domain.Maintenance](ctx, c, request{method: http.MethodGet, endpoint: "/maintenances/{id}", path: idPath("/maintenances/%d", id)})
}

// CreateMaintenance schedules a maintenance.
func (c *Client) CreateMaintenance(ctx context.Context, in MaintenanceInput) (*domain.Maintenance, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Maintenance](ctx, c, request{method: http.MethodPost, endpoint: "/maintenances", path: "/maintenances", body: in})
}

// UpdateMaintenance replaces a maintenance's editable fields.
func (c *Client) UpdateMaintenance(ctx context.Context, id int64, in MaintenanceInput) (*domain.Maintenance, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Maintenance](ctx, c, request{
		method: http.MethodPut, endpoint: "/maintenances/{id}", path: idPath("/maintenances/%d", id), body: in,
	})
}

// DeleteMaintenance deletes a maintenance.
func (c *Client) DeleteMaintenance(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "/maintenances/{id}", path: idPath("/maintenances/%d", id)}, nil)
}

// ListOrganizations returns all organizations.
func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return getList[domain.Organization](ctx, c, request{method: http.MethodGet, endpoint: "/organizations", path: "/organizations"})
}

// GetOrganization returns one organization.
func (c *Client) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	return getOne[domain.Organization](ctx, c, request{
		method: http.MethodGet, endpoint: "/organizations/{id}", path: idPath("/organizations/%d", id),
	})
}

// CreateOrganization creates an organization, deriving the slug from the
// name when none is given.
func (c *Client) CreateOrganization(ctx context.Context, in OrganizationInput) (*domain.Organization, error) {
	if in.Slug == "" {
		in.Slug = domain.Slugify(in.Name)
	}
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Organization](ctx, c, request{method: http.MethodPost, endpoint: "/organizations", path: "/organizations", body: in})
}

// UpdateOrganization replaces an organization's editable fields.
func (c *Client) UpdateOrganization(ctx context.Context, id int64, in OrganizationInput) (*domain.Organization, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.Organization](ctx, c, request{
		method: http.MethodPut, endpoint: "/organizations/{id}", path: idPath("/organizations/%d", id), body: in,
	})
}

// DeleteOrganization deletes an organization.
func (c *Client) DeleteOrganization(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "/organizations/{id}", path: idPath("/organizations/%d", id)}, nil)
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return getList[domain.User](ctx, c, request{method: http.MethodGet, endpoint: "/users", path: "/users"})
}

// UpdateUserRole changes a user's role.
func (c *Client) UpdateUserRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	in := RoleUpdate{Role: role}
	if err := c.check(in); err != nil {
		return nil, err
	}
	return getOne[domain.User](ctx, c, request{
		method: http.MethodPut, endpoint: "/users/{id}/role", path: idPath("/users/%d/role", userID), body: in,
	})
}

// UpdateUserOrganization moves a user into an organization, or out of any
// when organizationID is nil.
func (c *Client) UpdateUserOrganization(ctx context.Context, userID int64, organizationID *int64) (*domain.User, error) {
	return getOne[domain.User](ctx, c, request{
		method: http.MethodPut, endpoint: "/users/{id}/organization", path: idPath("/users/%d/organization", userID),
		body: OrganizationAssignment{OrganizationID: organizationID},
	})
}
