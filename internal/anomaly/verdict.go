package anomaly

// Verdict is the outcome of comparing a live reading with its monthly baseline.
type Verdict string

const (
	VerdictNormal           Verdict = "normal"
	VerdictAnomalous        Verdict = "anomalous"
	VerdictInsufficientData Verdict = "insufficient_data"
)

// LiveVerdict is the result of MonthlyVerdict. Baseline is nil when the
// month has no historical group. A group without finite samples is kept in
// Baseline but still yields VerdictInsufficientData.
type LiveVerdict struct {
	Key        MonthKey
	Value      float64
	Multiplier float64
	Baseline   *GroupBaseline[MonthKey]
	Verdict    Verdict
}

// MonthlyVerdict compares value with the baseline stored under key.
func MonthlyVerdict(baselines map[MonthKey]GroupBaseline[MonthKey], key MonthKey, value, multiplier float64) LiveVerdict {
	v := LiveVerdict{
		Key:        key,
		Value:      value,
		Multiplier: multiplier,
	}

	b, ok := baselines[key]
	if !ok {
		v.Verdict = VerdictInsufficientData
		return v
	}
	v.Baseline = &b

	if b.Count == 0 {
		v.Verdict = VerdictInsufficientData
		return v
	}

	if ClassifyLive(value, b.Mean, b.Std, multiplier) {
		v.Verdict = VerdictAnomalous
	} else {
		v.Verdict = VerdictNormal
	}

	return v
}
