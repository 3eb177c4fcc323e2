package models

import (
	"time"

	"seasonal-anomaly/internal/anomaly"
)

type LiveStatus string

const (
	LiveStatusCompared LiveStatus = "compared"
	LiveStatusSkipped  LiveStatus = "skipped"
	LiveStatusFailed   LiveStatus = "failed"
)

// LiveComparison is the outcome of the optional live-reading step.
// Reading and Verdict are set only when Status is LiveStatusCompared.
type LiveComparison struct {
	Status  LiveStatus
	Reason  string
	Reading *CurrentReading
	Verdict *anomaly.LiveVerdict
}

// Report is the result of analysing one city of a dataset.
type Report struct {
	ID          string
	GeneratedAt time.Time
	City        string
	Threshold   float64

	Summary      anomaly.Summary
	Records      []anomaly.LabeledRecord
	AnomalyCount int

	SeasonalBaselines []anomaly.GroupBaseline[anomaly.SeasonKey]
	MonthlyBaselines  []anomaly.GroupBaseline[anomaly.MonthKey]

	Live LiveComparison
}
