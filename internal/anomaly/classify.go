package anomaly

import "math"

const (
	// DefaultHistoricalThreshold is the std multiplier used to label the
	// historical batch.
	DefaultHistoricalThreshold = 2.0
	// DefaultLiveThreshold is the std multiplier used for the live reading
	// against its monthly baseline. It is intentionally not the same value
	// as DefaultHistoricalThreshold; both are configured separately.
	DefaultLiveThreshold = 1.0
)

// Thresholds holds the two classification policies.
type Thresholds struct {
	Historical float64
	Live       float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Historical: DefaultHistoricalThreshold,
		Live:       DefaultLiveThreshold,
	}
}

// Classify reports whether value deviates from mean by strictly more than
// threshold standard deviations. An undefined std is never anomalous.
// NaN operands make every comparison false, so they classify as normal.
func Classify(value, mean float64, std StdDev, threshold float64) bool {
	if !std.Defined {
		return false
	}
	return math.Abs(value-mean) > threshold*std.Value
}

// ClassifyLive applies the live-reading policy. The rule has the same shape
// as Classify but is driven by Thresholds.Live, not Thresholds.Historical.
func ClassifyLive(value, mean float64, std StdDev, multiplier float64) bool {
	return Classify(value, mean, std, multiplier)
}
