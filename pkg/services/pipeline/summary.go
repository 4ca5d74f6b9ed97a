package pipeline

import (
	"fmt"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

// metricReducer tracks running min/max/sum for one metric in a single pass.
type metricReducer struct {
	min, max, sum float64
	seeded        bool
}

func (r *metricReducer) observe(v float64) {
	if !r.seeded {
		r.min, r.max = v, v
		r.seeded = true
	} else {
		if v < r.min {
			r.min = v
		}
		if v > r.max {
			r.max = v
		}
	}
	r.sum += v
}

func (r *metricReducer) stats(count int) domain.MetricStats {
	return domain.MetricStats{
		Min: r.min,
		Max: r.max,
		Avg: round2(r.sum / float64(count)),
	}
}

// Summarize reduces an RFM table to per-metric min/max/average. Returns
// ErrEmptyDataset on empty input since the statistics are undefined there.
func Summarize(records []domain.RFMRecord) (domain.Summary, error) {
	if len(records) == 0 {
		return domain.Summary{}, fmt.Errorf("summarize: %w", ErrEmptyDataset)
	}

	var recency, frequency, monetary metricReducer
	for _, r := range records {
		recency.observe(float64(r.Recency))
		frequency.observe(float64(r.Frequency))
		monetary.observe(r.Monetary)
	}

	n := len(records)
	return domain.Summary{
		Customers: n,
		Recency:   recency.stats(n),
		Frequency: frequency.stats(n),
		Monetary:  monetary.stats(n),
	}, nil
}
