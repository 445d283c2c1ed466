package uptime

import (
	"slices"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
)

// Bucketize aggregates samples into fixed-width buckets for the period.
//
// Only samples within one window of the latest sample are kept. Buckets are
// anchored at the first kept sample. Each bucket averages uptime, averages
// response time over samples that carry one and reports the worst status.
// Empty buckets are omitted, so samples already spaced at the bucket width
// come back unchanged.
func Bucketize(samples []domain.UptimeSample, period Period) []domain.UptimeSample {
	out := []domain.UptimeSample{}
	width := period.BucketWidth()
	if len(samples) == 0 || width == 0 {
		return out
	}

	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b domain.UptimeSample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	cutoff := sorted[len(sorted)-1].Timestamp.Add(-period.Window())
	start := 0
	for start < len(sorted) && !sorted[start].Timestamp.After(cutoff) {
		start++
	}
	sorted = sorted[start:]
	if len(sorted) == 0 {
		return out
	}

	anchor := sorted[0].Timestamp
	var acc bucket
	current := int64(-1)

	for _, s := range sorted {
		idx := int64(s.Timestamp.Sub(anchor) / width)
		if idx != current {
			if acc.count > 0 {
				out = append(out, acc.sample())
			}
			acc = bucket{start: anchor.Add(time.Duration(idx) * width)}
			current = idx
		}
		acc.add(s)
	}
	out = append(out, acc.sample())

	return out
}

type bucket struct {
	start         time.Time
	count         int
	uptimeSum     float64
	responseSum   float64
	responseCount int
	worst         domain.ServiceStatus
}

func (b *bucket) add(s domain.UptimeSample) {
	if b.count == 0 {
		b.worst = domain.ServiceStatus(s.Status)
	} else {
		b.worst = status.Worse(b.worst, domain.ServiceStatus(s.Status))
	}
	b.count++
	b.uptimeSum += s.UptimePercentage
	if s.ResponseTimeMS != nil {
		b.responseSum += *s.ResponseTimeMS
		b.responseCount++
	}
}

func (b *bucket) sample() domain.UptimeSample {
	out := domain.UptimeSample{
		Timestamp:        b.start,
		UptimePercentage: b.uptimeSum / float64(b.count),
		Status:           string(b.worst),
	}
	if b.responseCount > 0 {
		avg := b.responseSum / float64(b.responseCount)
		out.ResponseTimeMS = &avg
	}
	return out
}
