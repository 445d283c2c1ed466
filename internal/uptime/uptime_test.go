package uptime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

func series(n int, step time.Duration, pct float64) []domain.UptimeSample {
	out := make([]domain.UptimeSample, n)
	for i := range out {
		out[i] = domain.UptimeSample{
			Timestamp:        base.Add(time.Duration(i) * step),
			UptimePercentage: pct,
			Status:           "operational",
			ResponseTimeMS:   f(100 + float64(i)),
		}
	}
	return out
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("24h")
	require.NoError(t, err)
	assert.Equal(t, Period24h, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Period7d, p)

	_, err = ParsePeriod("1y")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriod_Resolution(t *testing.T) {
	tests := []struct {
		period    Period
		width     time.Duration
		maxPoints int
	}{
		{Period24h, time.Hour, 24},
		{Period7d, 4 * time.Hour, 42},
		{Period30d, 24 * time.Hour, 30},
	}

	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			assert.Equal(t, tt.width, tt.period.BucketWidth())
			assert.Equal(t, tt.maxPoints, tt.period.MaxPoints())
		})
	}
}

func TestBucketize_IdentityAtMatchingResolution(t *testing.T) {
	for _, p := range []Period{Period24h, Period7d, Period30d} {
		t.Run(p.String(), func(t *testing.T) {
			samples := series(p.MaxPoints(), p.BucketWidth(), 99.9)

			raw, err := json.Marshal(samples)
			require.NoError(t, err)
			var decoded []domain.UptimeSample
			require.NoError(t, json.Unmarshal(raw, &decoded))

			assert.Equal(t, samples, Bucketize(decoded, p))
		})
	}
}

func TestBucketize_AveragesWithinBucket(t *testing.T) {
	samples := []domain.UptimeSample{
		{Timestamp: base, UptimePercentage: 100, Status: "operational", ResponseTimeMS: f(100)},
		{Timestamp: base.Add(15 * time.Minute), UptimePercentage: 90, Status: "degraded", ResponseTimeMS: f(300)},
		{Timestamp: base.Add(30 * time.Minute), UptimePercentage: 80, Status: "operational"},
		{Timestamp: base.Add(time.Hour), UptimePercentage: 50, Status: "major_outage"},
	}

	points := Bucketize(samples, Period24h)

	require.Len(t, points, 2)
	assert.Equal(t, base, points[0].Timestamp)
	assert.InDelta(t, 90.0, points[0].UptimePercentage, 1e-9)
	require.NotNil(t, points[0].ResponseTimeMS)
	assert.InDelta(t, 200.0, *points[0].ResponseTimeMS, 1e-9)
	assert.Equal(t, "degraded", points[0].Status)

	assert.Equal(t, base.Add(time.Hour), points[1].Timestamp)
	assert.Nil(t, points[1].ResponseTimeMS)
	assert.Equal(t, "major_outage", points[1].Status)
}

func TestBucketize_OmitsEmptyBuckets(t *testing.T) {
	samples := []domain.UptimeSample{
		{Timestamp: base, UptimePercentage: 100, Status: "operational"},
		{Timestamp: base.Add(5 * time.Hour), UptimePercentage: 100, Status: "operational"},
	}

	points := Bucketize(samples, Period24h)

	require.Len(t, points, 2)
	assert.Equal(t, base.Add(5*time.Hour), points[1].Timestamp)
}

func TestBucketize_RespectsMaxPoints(t *testing.T) {
	// Hourly samples over 40 days.
	samples := series(40*24, time.Hour, 99)

	for _, p := range []Period{Period24h, Period7d, Period30d} {
		t.Run(p.String(), func(t *testing.T) {
			points := Bucketize(samples, p)
			assert.LessOrEqual(t, len(points), p.MaxPoints())
			assert.NotEmpty(t, points)
			for _, pt := range points {
				assert.GreaterOrEqual(t, pt.UptimePercentage, 0.0)
				assert.LessOrEqual(t, pt.UptimePercentage, 100.0)
			}
		})
	}
}

func TestBucketize_UnsortedInput(t *testing.T) {
	samples := series(3, time.Hour, 100)
	reversed := []domain.UptimeSample{samples[2], samples[0], samples[1]}

	assert.Equal(t, samples, Bucketize(reversed, Period24h))
	assert.Equal(t, base.Add(2*time.Hour), reversed[0].Timestamp, "input must not be reordered")
}

func TestBucketize_Empty(t *testing.T) {
	points := Bucketize(nil, Period24h)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestComputeStats_Uniform(t *testing.T) {
	samples := series(30*24, time.Hour, 100)
	now := samples[len(samples)-1].Timestamp

	stats := ComputeStats(samples, now)

	assert.Equal(t, 100.0, stats.CurrentUptimePercentage)
	assert.Equal(t, 100.0, stats.Uptime24h)
	assert.Equal(t, 100.0, stats.Uptime7d)
	assert.Equal(t, 100.0, stats.Uptime30d)
	assert.Equal(t, string(TrendStable), stats.Trend)
	assert.Equal(t, "operational", stats.CurrentStatus)
}

func TestComputeStats_Windows(t *testing.T) {
	now := base.Add(30 * 24 * time.Hour)
	samples := []domain.UptimeSample{
		{Timestamp: now.Add(-20 * 24 * time.Hour), UptimePercentage: 90, Status: "degraded"},
		{Timestamp: now.Add(-3 * 24 * time.Hour), UptimePercentage: 98, Status: "operational"},
		{Timestamp: now.Add(-time.Hour), UptimePercentage: 100, Status: "operational", ResponseTimeMS: f(120)},
		{Timestamp: now.Add(-30 * time.Minute), UptimePercentage: 100, Status: "maintenance", ResponseTimeMS: f(80)},
		{Timestamp: now.Add(time.Hour), UptimePercentage: 0, Status: "major_outage"},
	}

	stats := ComputeStats(samples, now)

	assert.InDelta(t, 100.0, stats.Uptime24h, 1e-9)
	assert.Equal(t, stats.Uptime24h, stats.CurrentUptimePercentage)
	assert.InDelta(t, (98.0+100+100)/3, stats.Uptime7d, 1e-9)
	assert.InDelta(t, (90.0+98+100+100)/4, stats.Uptime30d, 1e-9)
	require.NotNil(t, stats.AvgResponseTime)
	assert.InDelta(t, 100.0, *stats.AvgResponseTime, 1e-9)
	assert.Equal(t, "maintenance", stats.CurrentStatus)
	assert.Equal(t, string(TrendImproving), stats.Trend)
}

func TestComputeStats_NoSamples(t *testing.T) {
	stats := ComputeStats(nil, base)

	assert.Equal(t, 100.0, stats.Uptime24h)
	assert.Equal(t, 100.0, stats.Uptime30d)
	assert.Nil(t, stats.AvgResponseTime)
	assert.Equal(t, StatusUnknown, stats.CurrentStatus)
	assert.Equal(t, string(TrendStable), stats.Trend)
}

func TestApplyIncidents(t *testing.T) {
	now := base.Add(60 * 24 * time.Hour)
	incidents := []domain.Incident{
		{ID: 1, ServiceID: 5, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, ServiceID: 5, CreatedAt: now.Add(-3 * 24 * time.Hour)},
		{ID: 3, ServiceID: 5, CreatedAt: now.Add(-20 * 24 * time.Hour)},
		{ID: 4, ServiceID: 5, CreatedAt: now.Add(-45 * 24 * time.Hour)},
		{ID: 5, ServiceID: 6, CreatedAt: now.Add(-time.Hour)},
	}

	stats := ApplyIncidents(domain.UptimeStats{ServiceID: 5}, incidents, now)

	assert.Equal(t, 1, stats.TotalIncidents24h)
	assert.Equal(t, 2, stats.TotalIncidents7d)
	assert.Equal(t, 3, stats.TotalIncidents30d)
	require.NotNil(t, stats.LastIncident)
	assert.Equal(t, now.Add(-2*time.Hour), *stats.LastIncident)
}

func TestApplyIncidents_NoneInWindow(t *testing.T) {
	now := base.Add(60 * 24 * time.Hour)
	incidents := []domain.Incident{{ID: 1, ServiceID: 5, CreatedAt: now.Add(-45 * 24 * time.Hour)}}

	stats := ApplyIncidents(domain.UptimeStats{ServiceID: 5}, incidents, now)

	assert.Nil(t, stats.LastIncident)
	assert.Zero(t, stats.TotalIncidents30d)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pct  float64
		want Health
	}{
		{100, HealthExcellent},
		{99.5, HealthExcellent},
		{99.49, HealthWarning},
		{99.0, HealthWarning},
		{98.99, HealthCriticalWatch},
		{95.0, HealthCriticalWatch},
		{94.99, HealthCritical},
		{0, HealthCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pct), "pct %v", tt.pct)
	}
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendImproving, TrendOf(99.9, 99.0))
	assert.Equal(t, TrendDeclining, TrendOf(98.0, 99.0))
	assert.Equal(t, TrendStable, TrendOf(99.0, 99.0))
}

func TestNewModel(t *testing.T) {
	samples := series(24, time.Hour, 99.2)
	now := samples[23].Timestamp

	m := NewModel(Period24h, samples, now)

	assert.Equal(t, Period24h, m.Period)
	assert.Len(t, m.Points, 24)
	assert.Equal(t, HealthWarning, m.Health)
	assert.Equal(t, TrendStable, m.Trend)
}

func TestFromMetrics(t *testing.T) {
	metrics := &domain.UptimeMetrics{
		ServiceID:   3,
		ServiceName: "API",
		CurrentStats: domain.UptimeStats{
			ServiceID:               3,
			CurrentUptimePercentage: 96,
			Uptime7d:                97,
			Uptime30d:               99,
			TotalIncidents7d:        2,
		},
		GraphData: series(7*24, time.Hour, 97),
		Period:    "7d",
	}

	m := FromMetrics(Period7d, metrics)

	assert.LessOrEqual(t, len(m.Points), 42)
	assert.Equal(t, HealthCriticalWatch, m.Health)
	assert.Equal(t, TrendDeclining, m.Trend)
	assert.Equal(t, string(TrendDeclining), m.Stats.Trend)
	assert.Equal(t, 2, m.Stats.TotalIncidents7d)
}
