package notifications

import (
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Len(t, r.templates, 1)
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	payload := NewChangePayload(testChange(), "https://status.example.com")
	subject, body, color, err := r.Render(payload)
	require.NoError(t, err)

	assert.Equal(t, "[Degraded] API: Major Outage", subject)
	assert.Equal(t, "#d0021b", color)
	assert.Equal(t,
		"🔴 **API** is now **Major Outage**\n\n"+
			"Previous status: Operational\n\n"+
			"Observed at: Jun 1, 2024 10:30 UTC\n\n"+
			"[View service](https://status.example.com/services/7)",
		body)
}

func TestRenderer_Render_Baseline(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	change := testChange()
	change.OldStatus = nil
	change.NewStatus = domain.ServiceStatusDegraded

	subject, body, _, err := r.Render(NewChangePayload(change, ""))
	require.NoError(t, err)

	assert.Equal(t, "[Changed] API: Degraded Performance", subject)
	assert.NotContains(t, body, "Previous status")
	assert.NotContains(t, body, "View service")
}

func TestNewChangePayload_Kind(t *testing.T) {
	st := func(s domain.ServiceStatus) *domain.ServiceStatus { return &s }

	tests := []struct {
		name string
		old  *domain.ServiceStatus
		new  domain.ServiceStatus
		want ChangeKind
	}{
		{"worse", st(domain.ServiceStatusDegraded), domain.ServiceStatusMajorOutage, ChangeKindDegraded},
		{"recovered", st(domain.ServiceStatusMajorOutage), domain.ServiceStatusOperational, ChangeKindRecovered},
		{"partial recovery", st(domain.ServiceStatusMajorOutage), domain.ServiceStatusDegraded, ChangeKindChanged},
		{"maintenance", st(domain.ServiceStatusOperational), domain.ServiceStatusMaintenance, ChangeKindMaintenance},
		{"maintenance over", st(domain.ServiceStatusMaintenance), domain.ServiceStatusOperational, ChangeKindRecovered},
		{"first sighting", nil, domain.ServiceStatusOperational, ChangeKindChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewChangePayload(domain.ServiceStatusChange{
				ServiceID: 1, OldStatus: tt.old, NewStatus: tt.new, ObservedAt: time.Now(),
			}, "")
			assert.Equal(t, tt.want, p.Kind)
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "", formatTime(time.Time{}))
	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, "Jan 2, 2024 12:00 UTC", formatTime(time.Date(2024, 1, 2, 15, 0, 0, 0, loc)))
}
