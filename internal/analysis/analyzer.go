// Package analysis derives billing metrics from a customer's invoice history
// and turns them into a bounded risk score. All computations are pure given
// the injected reference date: same input, same output.
package analysis

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

// Analyzer computes customer metrics and risk scores.
type Analyzer struct {
	log *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger disables logging.
func NewAnalyzer(log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{log: log}
}

// OverdueBucket categorizes overdue days into an aging bucket label.
// Boundaries are inclusive on both ends.
func OverdueBucket(daysOverdue int) string {
	switch {
	case daysOverdue <= 30:
		return "0-30 days"
	case daysOverdue <= 60:
		return "31-60 days"
	case daysOverdue <= 90:
		return "61-90 days"
	default:
		return "90+ days"
	}
}

// Percentile computes the p-th percentile of values using linear
// interpolation between closest ranks. Returns 0 for an empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
