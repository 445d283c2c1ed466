// Package status derives the overall system status from per-service states
// and provides display labels for status codes.
package status

import (
	"strings"

	"github.com/bissquit/statusdash/internal/domain"
)

// Level is the overall status of a set of services.
type Level string

// Levels. Unknown is only produced for an empty service list.
const (
	LevelUnknown       Level = "unknown"
	LevelOperational   Level = Level(domain.ServiceStatusOperational)
	LevelMaintenance   Level = Level(domain.ServiceStatusMaintenance)
	LevelDegraded      Level = Level(domain.ServiceStatusDegraded)
	LevelPartialOutage Level = Level(domain.ServiceStatusPartialOutage)
	LevelMajorOutage   Level = Level(domain.ServiceStatusMajorOutage)
)

// severity orders service statuses; higher is worse.
var severity = map[domain.ServiceStatus]int{
	domain.ServiceStatusOperational:   0,
	domain.ServiceStatusMaintenance:   1,
	domain.ServiceStatusDegraded:      2,
	domain.ServiceStatusPartialOutage: 3,
	domain.ServiceStatusMajorOutage:   4,
}

// Severity returns the rank of a service status. Unrecognised values rank as operational.
func Severity(s domain.ServiceStatus) int {
	return severity[s]
}

// Worse returns the more severe of two statuses, preferring a on ties.
func Worse(a, b domain.ServiceStatus) domain.ServiceStatus {
	if Severity(b) > Severity(a) {
		return b
	}
	return a
}

// Overall reduces services to a single level. The worst status wins,
// so the result does not depend on the order of services.
func Overall(services []domain.Service) Level {
	if len(services) == 0 {
		return LevelUnknown
	}

	worst := domain.ServiceStatusOperational
	for _, svc := range services {
		worst = Worse(worst, svc.Status)
	}
	return Level(worst)
}

var labels = map[string]string{
	string(LevelUnknown):       "Unknown",
	string(LevelOperational):   "Operational",
	string(LevelDegraded):      "Degraded Performance",
	string(LevelPartialOutage): "Partial Outage",
	string(LevelMajorOutage):   "Major Outage",
	string(LevelMaintenance):   "Maintenance",

	string(domain.IncidentStatusInvestigating): "Investigating",
	string(domain.IncidentStatusIdentified):    "Identified",
	string(domain.IncidentStatusMonitoring):    "Monitoring",
	string(domain.IncidentStatusResolved):      "Resolved",

	string(domain.MaintenanceStatusScheduled):  "Scheduled",
	string(domain.MaintenanceStatusInProgress): "In Progress",
	string(domain.MaintenanceStatusCompleted):  "Completed",
	string(domain.MaintenanceStatusCancelled):  "Cancelled",
}

// Label returns the display label for a status code. Unknown codes are
// returned as provided with underscores replaced by spaces.
func Label(code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return strings.ReplaceAll(code, "_", " ")
}

// Summary is the overview card content for a set of services.
type Summary struct {
	Overall Level                        `json:"overall_status"`
	Label   string                       `json:"label"`
	Total   int                          `json:"total"`
	Counts  map[domain.ServiceStatus]int `json:"counts"`
}

// Summarize computes the overall level and per-status counts.
func Summarize(services []domain.Service) Summary {
	overall := Overall(services)
	counts := make(map[domain.ServiceStatus]int, len(severity))
	for _, svc := range services {
		counts[svc.Status]++
	}
	return Summary{
		Overall: overall,
		Label:   Label(string(overall)),
		Total:   len(services),
		Counts:  counts,
	}
}
