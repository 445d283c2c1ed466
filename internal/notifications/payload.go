// Package notifications delivers service status transitions to chat webhooks.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
)

// Notification is a rendered message for one target.
type Notification struct {
	To      string
	Subject string
	Body    string
	Color   string // hex accent color, empty for plain text
}

// Sender delivers a rendered notification. Errors that implement
// IsRetryable() bool are retried when it returns true.
type Sender interface {
	Send(ctx context.Context, notification Notification) error
}

// ChangeKind classifies a transition for the subject line.
type ChangeKind string

// Change kinds.
const (
	ChangeKindDegraded    ChangeKind = "degraded"
	ChangeKindRecovered   ChangeKind = "recovered"
	ChangeKindMaintenance ChangeKind = "maintenance"
	ChangeKindChanged     ChangeKind = "changed"
)

// ChangePayload contains data for rendering a status transition.
type ChangePayload struct {
	Kind         ChangeKind `json:"kind"`
	ServiceID    int64      `json:"service_id"`
	ServiceName  string     `json:"service_name"`
	OldStatus    string     `json:"old_status,omitempty"`
	NewStatus    string     `json:"new_status"`
	ObservedAt   time.Time  `json:"observed_at"`
	DashboardURL string     `json:"dashboard_url,omitempty"`
}

// NewChangePayload builds a payload from a recorded transition.
func NewChangePayload(change domain.ServiceStatusChange, baseURL string) ChangePayload {
	p := ChangePayload{
		Kind:        kindOf(change),
		ServiceID:   change.ServiceID,
		ServiceName: change.ServiceName,
		NewStatus:   string(change.NewStatus),
		ObservedAt:  change.ObservedAt,
	}
	if change.OldStatus != nil {
		p.OldStatus = string(*change.OldStatus)
	}
	if baseURL != "" {
		p.DashboardURL = fmt.Sprintf("%s/services/%d", baseURL, change.ServiceID)
	}
	return p
}

func kindOf(change domain.ServiceStatusChange) ChangeKind {
	switch {
	case change.NewStatus == domain.ServiceStatusMaintenance:
		return ChangeKindMaintenance
	case change.OldStatus == nil:
		return ChangeKindChanged
	case status.Severity(change.NewStatus) < status.Severity(*change.OldStatus):
		if change.NewStatus == domain.ServiceStatusOperational {
			return ChangeKindRecovered
		}
		return ChangeKindChanged
	case status.Severity(change.NewStatus) > status.Severity(*change.OldStatus):
		return ChangeKindDegraded
	default:
		return ChangeKindChanged
	}
}
