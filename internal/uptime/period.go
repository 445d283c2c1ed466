// Package uptime turns uptime samples into chart series and summary statistics.
package uptime

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownPeriod is returned when a period string is not 24h, 7d or 30d.
var ErrUnknownPeriod = errors.New("unknown period")

// Period is a chart time range.
type Period string

// Periods.
const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// DefaultPeriod is used when no period is requested.
const DefaultPeriod = Period7d

type periodSpec struct {
	window time.Duration
	bucket time.Duration
}

var periods = map[Period]periodSpec{
	Period24h: {window: 24 * time.Hour, bucket: time.Hour},
	Period7d:  {window: 7 * 24 * time.Hour, bucket: 4 * time.Hour},
	Period30d: {window: 30 * 24 * time.Hour, bucket: 24 * time.Hour},
}

// ParsePeriod validates a period string. An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	p := Period(s)
	if _, ok := periods[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Window returns the time range covered by the period.
func (p Period) Window() time.Duration {
	return periods[p].window
}

// BucketWidth returns the display resolution of the period.
func (p Period) BucketWidth() time.Duration {
	return periods[p].bucket
}

// MaxPoints returns the largest number of buckets the period can produce.
func (p Period) MaxPoints() int {
	spec := periods[p]
	if spec.bucket == 0 {
		return 0
	}
	return int(spec.window / spec.bucket)
}

func (p Period) String() string {
	return string(p)
}
