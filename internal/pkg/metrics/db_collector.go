package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolStats is the subset of *pgxpool.Stat reported as metrics.
type PoolStats interface {
	AcquiredConns() int32
	IdleConns() int32
	ConstructingConns() int32
	TotalConns() int32
	MaxConns() int32
	EmptyAcquireCount() int64
}

var _ PoolStats = (*pgxpool.Stat)(nil)

// RecordDBPoolMetrics updates the history database pool gauges.
func RecordDBPoolMetrics(pool *pgxpool.Pool) {
	RecordPoolStats(pool.Stat())
}

// RecordPoolStats sets one gauge per connection state.
func RecordPoolStats(stats PoolStats) {
	DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns()))
	DBPoolConnections.WithLabelValues("constructing").Set(float64(stats.ConstructingConns()))
	DBPoolConnections.WithLabelValues("total").Set(float64(stats.TotalConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stats.MaxConns()))
	DBPoolEmptyAcquires.Set(float64(stats.EmptyAcquireCount()))
}
