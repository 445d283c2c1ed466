package status

import (
	"testing"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/stretchr/testify/assert"
)

func services(statuses ...domain.ServiceStatus) []domain.Service {
	out := make([]domain.Service, len(statuses))
	for i, s := range statuses {
		out[i] = domain.Service{ID: int64(i + 1), Name: "svc", Status: s}
	}
	return out
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name     string
		services []domain.Service
		want     Level
	}{
		{"empty", nil, LevelUnknown},
		{"single operational", services(domain.ServiceStatusOperational), LevelOperational},
		{"degraded and major", services(domain.ServiceStatusDegraded, domain.ServiceStatusMajorOutage), LevelMajorOutage},
		{
			"partial beats maintenance",
			services(domain.ServiceStatusOperational, domain.ServiceStatusPartialOutage, domain.ServiceStatusMaintenance),
			LevelPartialOutage,
		},
		{"maintenance beats operational", services(domain.ServiceStatusOperational, domain.ServiceStatusMaintenance), LevelMaintenance},
		{"degraded beats maintenance", services(domain.ServiceStatusMaintenance, domain.ServiceStatusDegraded), LevelDegraded},
		{"unrecognised ignored", services("exploded", domain.ServiceStatusOperational), LevelOperational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overall(tt.services))
		})
	}
}

func TestOverall_OrderIndependent(t *testing.T) {
	all := []domain.ServiceStatus{
		domain.ServiceStatusOperational,
		domain.ServiceStatusMaintenance,
		domain.ServiceStatusDegraded,
		domain.ServiceStatusPartialOutage,
		domain.ServiceStatusMajorOutage,
	}

	// Every subset of size 3 under every permutation.
	for i := range all {
		for j := range all {
			for k := range all {
				base := Overall(services(all[i], all[j], all[k]))
				for _, perm := range permutations([]domain.ServiceStatus{all[i], all[j], all[k]}) {
					assert.Equal(t, base, Overall(services(perm...)), "permutation %v", perm)
				}
			}
		}
	}
}

func TestOverall_Idempotent(t *testing.T) {
	svcs := services(domain.ServiceStatusDegraded, domain.ServiceStatusOperational)
	first := Overall(svcs)
	assert.Equal(t, first, Overall(svcs))
	assert.Equal(t, first, Overall(services(domain.ServiceStatus(first))))
}

func permutations(in []domain.ServiceStatus) [][]domain.ServiceStatus {
	if len(in) <= 1 {
		return [][]domain.ServiceStatus{append([]domain.ServiceStatus(nil), in...)}
	}
	var out [][]domain.ServiceStatus
	for i := range in {
		rest := make([]domain.ServiceStatus, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]domain.ServiceStatus{in[i]}, p...))
		}
	}
	return out
}

func TestLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"major_outage", "Major Outage"},
		{"partial_outage", "Partial Outage"},
		{"degraded", "Degraded Performance"},
		{"operational", "Operational"},
		{"maintenance", "Maintenance"},
		{"in_progress", "In Progress"},
		{"investigating", "Investigating"},
		{"some_new_state", "some new state"},
		{"Already Nice", "Already Nice"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.code))
		})
	}
}

func TestWorse(t *testing.T) {
	assert.Equal(t, domain.ServiceStatusMajorOutage, Worse(domain.ServiceStatusDegraded, domain.ServiceStatusMajorOutage))
	assert.Equal(t, domain.ServiceStatusDegraded, Worse(domain.ServiceStatusDegraded, domain.ServiceStatusMaintenance))
	assert.Equal(t, domain.ServiceStatusOperational, Worse(domain.ServiceStatusOperational, "bogus"))
}

func TestSummarize(t *testing.T) {
	s := Summarize(services(domain.ServiceStatusOperational, domain.ServiceStatusPartialOutage, domain.ServiceStatusMaintenance))

	assert.Equal(t, LevelPartialOutage, s.Overall)
	assert.Equal(t, "Partial Outage", s.Label)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Counts[domain.ServiceStatusPartialOutage])
	assert.Equal(t, 1, s.Counts[domain.ServiceStatusOperational])
	assert.Zero(t, s.Counts[domain.ServiceStatusMajorOutage])
}
