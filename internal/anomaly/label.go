package anomaly

// LabelBatch computes baselines over records grouped by key and labels
// every record against its own group's baseline. The output preserves
// input order and has the same length as records.
func LabelBatch[K comparable](records []Record, key func(Record) K, threshold float64) []LabeledRecord {
	baselines := ComputeBaselines(records, key)
	return Join(records, baselines, key, threshold)
}

// Join labels records against precomputed baselines. Every record's group
// must be present in baselines; a record without one panics, since
// baselines derived from the same batch always cover it.
func Join[K comparable](records []Record, baselines map[K]GroupBaseline[K], key func(Record) K, threshold float64) []LabeledRecord {
	labeled := make([]LabeledRecord, 0, len(records))
	for _, r := range records {
		b, ok := baselines[key(r)]
		if !ok {
			panic("anomaly: record has no baseline for its group")
		}
		labeled = append(labeled, LabeledRecord{
			Record:       r,
			BaselineMean: b.Mean,
			BaselineStd:  b.Std,
			IsAnomaly:    Classify(r.Value, b.Mean, b.Std, threshold),
		})
	}

	return labeled
}

func CountAnomalies(records []LabeledRecord) int {
	n := 0
	for _, r := range records {
		if r.IsAnomaly {
			n++
		}
	}
	return n
}
