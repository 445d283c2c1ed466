package gateway

import (
	"net/http"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
)

// ListServices handles GET /services request.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.upstream(r).ListServices(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, services)
}

// CreateService handles POST /services request.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req apiclient.ServiceInput
	if !h.decode(w, r, &req) {
		return
	}

	svc, err := h.upstream(r).CreateService(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, svc)
}

// UpdateService handles PUT /services/{id} request.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.ServiceInput
	if !h.decode(w, r, &req) {
		return
	}

	svc, err := h.upstream(r).UpdateService(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, svc)
}

// DeleteService handles DELETE /services/{id} request.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.upstream(r).DeleteService(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIncidents handles GET /incidents request.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.upstream(r).ListIncidents(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, incidents)
}

// CreateIncident handles POST /incidents request.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req apiclient.IncidentInput
	if !h.decode(w, r, &req) {
		return
	}

	inc, err := h.upstream(r).CreateIncident(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, inc)
}

// UpdateIncident handles PUT /incidents/{id} request.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.IncidentInput
	if !h.decode(w, r, &req) {
		return
	}

	inc, err := h.upstream(r).UpdateIncident(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, inc)
}

// DeleteIncident handles DELETE /incidents/{id} request.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.upstream(r).DeleteIncident(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIncidentUpdates handles GET /incidents/{id}/updates request.
func (h *Handler) ListIncidentUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	updates, err := h.upstream(r).ListIncidentUpdates(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, updates)
}

// CreateIncidentUpdate handles POST /incidents/{id}/updates request.
func (h *Handler) CreateIncidentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.IncidentUpdateInput
	if !h.decode(w, r, &req) {
		return
	}

	update, err := h.upstream(r).CreateIncidentUpdate(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, update)
}

// ListMaintenances handles GET /maintenances request.
func (h *Handler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	maintenances, err := h.upstream(r).ListMaintenances(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, maintenances)
}

// CreateMaintenance handles POST /maintenances request.
func (h *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var req apiclient.MaintenanceInput
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.upstream(r).CreateMaintenance(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, m)
}

// UpdateMaintenance handles PUT /maintenances/{id} request.
func (h *Handler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.MaintenanceInput
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.upstream(r).UpdateMaintenance(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, m)
}

// DeleteMaintenance handles DELETE /maintenances/{id} request.
func (h *Handler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.upstream(r).DeleteMaintenance(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /users request.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.upstream(r).ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, users)
}

// UpdateUserRole handles PUT /users/{id}/role request.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.RoleUpdate
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.upstream(r).UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

// UpdateUserOrganization handles PUT /users/{id}/organization request.
func (h *Handler) UpdateUserOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.OrganizationAssignment
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.upstream(r).UpdateUserOrganization(r.Context(), id, req.OrganizationID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

// ListOrganizations handles GET /organizations request.
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.upstream(r).ListOrganizations(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, orgs)
}

// CreateOrganization handles POST /organizations request.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req apiclient.OrganizationInput
	if !h.decode(w, r, &req) {
		return
	}

	org, err := h.upstream(r).CreateOrganization(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, org)
}

// UpdateOrganization handles PUT /organizations/{id} request.
func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req apiclient.OrganizationInput
	if !h.decode(w, r, &req) {
		return
	}

	org, err := h.upstream(r).UpdateOrganization(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, org)
}

// DeleteOrganization handles DELETE /organizations/{id} request.
func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.upstream(r).DeleteOrganization(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
