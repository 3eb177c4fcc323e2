package anomaly

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary is a descriptive statistics table over a set of values.
type Summary struct {
	Count  int
	Mean   float64
	Std    StdDev
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes the finite values. Quartiles use the empirical CDF,
// so they are always observed values. With no finite values every field
// except Count is NaN and Std is undefined.
func Describe(values []float64) Summary {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}

	if len(finite) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}

	slices.Sort(finite)

	s := Summary{
		Count:  len(finite),
		Min:    finite[0],
		Max:    finite[len(finite)-1],
		Q25:    stat.Quantile(0.25, stat.Empirical, finite, nil),
		Median: stat.Quantile(0.5, stat.Empirical, finite, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, finite, nil),
	}

	b := baselineOf(struct{}{}, finite)
	s.Mean = b.Mean
	s.Std = b.Std

	return s
}

// Values extracts the measured values of records.
func Values(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}
