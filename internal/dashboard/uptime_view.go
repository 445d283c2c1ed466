package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/uptime"
)

// ErrStale is returned by UptimeView.Select when a newer selection was made
// while the request was in flight. The response has been discarded.
var ErrStale = errors.New("superseded by a newer selection")

// MetricsSource fetches the uptime metrics of one service.
type MetricsSource interface {
	ServiceMetrics(ctx context.Context, serviceID int64, period uptime.Period) (*domain.UptimeMetrics, error)
}

// UptimeSnapshot is the applied state of an uptime view.
type UptimeSnapshot struct {
	ServiceID   int64         `json:"service_id"`
	ServiceName string        `json:"service_name,omitempty"`
	Period      uptime.Period `json:"period"`
	Generation  uint64        `json:"generation"`
	Loading     bool          `json:"loading"`
	Model       *uptime.Model `json:"model,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// NewUptimeSnapshot builds a snapshot from a caller-supplied sample set.
func NewUptimeSnapshot(serviceID int64, period uptime.Period, samples []domain.UptimeSample, now time.Time) UptimeSnapshot {
	model := uptime.NewModel(period, samples, now)
	model.Stats.ServiceID = serviceID
	return UptimeSnapshot{
		ServiceID: serviceID,
		Period:    period,
		Model:     &model,
	}
}

// UptimeView holds the uptime state of one service while the selected
// period changes. Only the response to the latest selection is applied.
type UptimeView struct {
	source    MetricsSource
	serviceID int64

	mu       sync.Mutex
	gen      uint64
	snapshot UptimeSnapshot
}

// NewUptimeView creates a view for serviceID with nothing loaded.
func NewUptimeView(source MetricsSource, serviceID int64) *UptimeView {
	return &UptimeView{
		source:    source,
		serviceID: serviceID,
		snapshot: UptimeSnapshot{
			ServiceID: serviceID,
			Period:    uptime.DefaultPeriod,
		},
	}
}

// Select switches the view to period and fetches its metrics. If another
// Select started after this one, the result is dropped and ErrStale is
// returned. A fetch failure is applied as an error state and returned.
func (v *UptimeView) Select(ctx context.Context, period uptime.Period) (UptimeSnapshot, error) {
	var (
		snap    UptimeSnapshot
		err     error
		applied bool
	)
	v.SelectFunc(ctx, period, func(s UptimeSnapshot, e error) {
		snap, err, applied = s, e, true
	})
	if !applied {
		return UptimeSnapshot{}, ErrStale
	}
	return snap, err
}

// SelectFunc is Select with the result handed to apply instead of returned.
// apply runs with the view locked and only while this selection is still
// the latest, so a newer selection cannot start until it returns. Callers
// that publish the snapshot (e.g. write it to a socket) do so inside apply.
// apply must not call back into the view.
func (v *UptimeView) SelectFunc(ctx context.Context, period uptime.Period, apply func(UptimeSnapshot, error)) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.snapshot.Period = period
	v.snapshot.Generation = gen
	v.snapshot.Loading = true
	v.mu.Unlock()

	metrics, err := v.source.ServiceMetrics(ctx, v.serviceID, period)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		return
	}

	v.snapshot.Loading = false
	if err != nil {
		v.snapshot.Model = nil
		v.snapshot.Error = err.Error()
		apply(v.snapshot, err)
		return
	}

	model := uptime.FromMetrics(period, metrics)
	v.snapshot.ServiceName = metrics.ServiceName
	v.snapshot.Model = &model
	v.snapshot.Error = ""
	apply(v.snapshot, nil)
}

// Snapshot returns the last applied state.
func (v *UptimeView) Snapshot() UptimeSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}
