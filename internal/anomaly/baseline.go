package anomaly

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ComputeBaselines partitions records by key and computes the mean and the
// sample standard deviation (n-1 denominator) of each partition.
//
// Non-finite values (NaN, ±Inf) are excluded from a partition's statistics
// but the partition itself still exists. A partition with a single finite
// value has that value as its mean and an undefined std. A partition with
// no finite values has a NaN mean and an undefined std.
func ComputeBaselines[K comparable](records []Record, key func(Record) K) map[K]GroupBaseline[K] {
	groups := make(map[K][]float64)
	for _, r := range records {
		k := key(r)
		values := groups[k]
		if isFinite(r.Value) {
			values = append(values, r.Value)
		}
		groups[k] = values
	}

	baselines := make(map[K]GroupBaseline[K], len(groups))
	for k, values := range groups {
		baselines[k] = baselineOf(k, values)
	}

	return baselines
}

func baselineOf[K comparable](k K, values []float64) GroupBaseline[K] {
	b := GroupBaseline[K]{Key: k, Count: len(values)}

	switch len(values) {
	case 0:
		b.Mean = math.NaN()
	case 1:
		b.Mean = values[0]
	default:
		mean, std := stat.MeanStdDev(values, nil)
		b.Mean = mean
		b.Std = DefinedStdDev(std)
	}

	return b
}

// SortedBaselines returns the baselines ordered by compare on their keys.
func SortedBaselines[K comparable](baselines map[K]GroupBaseline[K], compare func(a, b K) int) []GroupBaseline[K] {
	out := make([]GroupBaseline[K], 0, len(baselines))
	for _, b := range baselines {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b GroupBaseline[K]) int {
		return compare(a.Key, b.Key)
	})

	return out
}

// CompareSeasonKeys orders by location, then season name.
func CompareSeasonKeys(a, b SeasonKey) int {
	return cmp.Or(cmp.Compare(a.Location, b.Location), cmp.Compare(a.Season, b.Season))
}

// CompareMonthKeys orders by location, then calendar month.
func CompareMonthKeys(a, b MonthKey) int {
	return cmp.Or(cmp.Compare(a.Location, b.Location), cmp.Compare(a.Month, b.Month))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
