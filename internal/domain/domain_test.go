package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncident_Validate_ResolvedAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		status     IncidentStatus
		resolvedAt *time.Time
		wantErr    bool
	}{
		{"resolved with timestamp", IncidentStatusResolved, &now, false},
		{"resolved without timestamp", IncidentStatusResolved, nil, true},
		{"open without timestamp", IncidentStatusInvestigating, nil, false},
		{"open with timestamp", IncidentStatusMonitoring, &now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := Incident{ID: 1, Status: tt.status, Type: IncidentTypeIncident, ResolvedAt: tt.resolvedAt}
			err := inc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIncident_Normalize(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		status      IncidentStatus
		resolvedAt  *time.Time
		wantChanged bool
		wantNil     bool
	}{
		{"reopened keeps stale timestamp", IncidentStatusMonitoring, &now, true, true},
		{"resolved untouched", IncidentStatusResolved, &now, false, false},
		{"open untouched", IncidentStatusInvestigating, nil, false, true},
		{"unknown status untouched", "exploded", &now, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := Incident{ID: 1, Status: tt.status, Type: IncidentTypeIncident, ResolvedAt: tt.resolvedAt}
			assert.Equal(t, tt.wantChanged, inc.Normalize())
			assert.Equal(t, tt.wantNil, inc.ResolvedAt == nil)
			if tt.wantChanged {
				assert.NoError(t, inc.Validate())
			}
		})
	}
}

func TestIncident_Validate_RejectsUnknownEnums(t *testing.T) {
	inc := Incident{ID: 1, Status: "exploded"}
	assert.Error(t, inc.Validate())

	inc = Incident{ID: 1, Status: IncidentStatusIdentified, Type: "outage"}
	assert.Error(t, inc.Validate())

	bad := IncidentStatus("nope")
	inc = Incident{ID: 1, Status: IncidentStatusIdentified, Updates: []IncidentUpdate{{ID: 2, Status: &bad}}}
	assert.Error(t, inc.Validate())
}

func TestIncident_LatestUpdate(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	inc := Incident{}
	assert.Nil(t, inc.LatestUpdate())

	inc.Updates = []IncidentUpdate{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
	}
	latest := inc.LatestUpdate()
	require.NotNil(t, latest)
	assert.Equal(t, int64(3), latest.ID)
}

func TestUser_Predicates(t *testing.T) {
	tests := []struct {
		name           string
		user           User
		admin, manager bool
	}{
		{"admin", User{Role: RoleAdmin}, true, true},
		{"manager", User{Role: RoleManager}, false, true},
		{"viewer", User{Role: RoleViewer}, false, false},
		{"superuser viewer", User{Role: RoleViewer, IsSuperuser: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, tt.user.IsAdmin())
			assert.Equal(t, tt.manager, tt.user.IsManagerOrAdmin())
		})
	}
}

func TestMaintenance_Validate(t *testing.T) {
	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	m := Maintenance{ID: 1, Status: MaintenanceStatusScheduled, ScheduledStart: start, ScheduledEnd: start.Add(time.Hour)}
	assert.NoError(t, m.Validate())

	m.ScheduledEnd = start.Add(-time.Hour)
	assert.Error(t, m.Validate())

	m.ScheduledEnd = start
	m.Status = "paused"
	assert.Error(t, m.Validate())
}

func TestUptimeSample_Validate(t *testing.T) {
	s := UptimeSample{UptimePercentage: 100}
	assert.NoError(t, s.Validate())

	s.UptimePercentage = 100.1
	assert.Error(t, s.Validate())

	s.UptimePercentage = -1
	assert.Error(t, s.Validate())
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Hello,  World!  ", "hello-world"},
		{"already-slugged", "already-slugged"},
		{"a -- b", "a-b"},
		{"snake_case name", "snake_case-name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
