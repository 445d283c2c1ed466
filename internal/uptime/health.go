package uptime

// Health is the color class of an uptime percentage.
type Health string

// Health classes.
const (
	HealthExcellent     Health = "excellent"
	HealthWarning       Health = "warning"
	HealthCriticalWatch Health = "critical-watch"
	HealthCritical      Health = "critical"
)

// thresholds are checked in order; the first floor that pct reaches wins.
var thresholds = []struct {
	floor  float64
	health Health
}{
	{99.5, HealthExcellent},
	{99.0, HealthWarning},
	{95.0, HealthCriticalWatch},
}

// Classify maps an uptime percentage to its health class.
func Classify(pct float64) Health {
	for _, t := range thresholds {
		if pct >= t.floor {
			return t.health
		}
	}
	return HealthCritical
}

// Trend is the direction of recent uptime compared to the longer baseline.
type Trend string

// Trends.
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// TrendOf compares 7d uptime against 30d uptime.
func TrendOf(uptime7d, uptime30d float64) Trend {
	switch {
	case uptime7d > uptime30d:
		return TrendImproving
	case uptime7d < uptime30d:
		return TrendDeclining
	default:
		return TrendStable
	}
}
