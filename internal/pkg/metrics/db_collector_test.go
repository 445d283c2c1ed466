package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeStats struct {
	acquired, idle, constructing, total, max int32
	emptyAcquires                            int64
}

func (f fakeStats) AcquiredConns() int32     { return f.acquired }
func (f fakeStats) IdleConns() int32         { return f.idle }
func (f fakeStats) ConstructingConns() int32 { return f.constructing }
func (f fakeStats) TotalConns() int32        { return f.total }
func (f fakeStats) MaxConns() int32          { return f.max }
func (f fakeStats) EmptyAcquireCount() int64 { return f.emptyAcquires }

func TestRecordPoolStats(t *testing.T) {
	RecordPoolStats(fakeStats{acquired: 3, idle: 2, constructing: 1, total: 6, max: 10, emptyAcquires: 7})

	tests := []struct {
		state string
		want  float64
	}{
		{"in_use", 3},
		{"idle", 2},
		{"constructing", 1},
		{"total", 6},
		{"max", 10},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, testutil.ToFloat64(DBPoolConnections.WithLabelValues(tt.state)))
		})
	}
	assert.Equal(t, float64(7), testutil.ToFloat64(DBPoolEmptyAcquires))
}
