package http

import (
	"math"
	"time"

	"seasonal-anomaly/internal/anomaly"
	"seasonal-anomaly/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required form field: city"`
}

// CitiesResponse lists the cities of an uploaded dataset
type CitiesResponse struct {
	Cities  []string `json:"cities" example:"Berlin,Cairo"`
	Rows    int      `json:"rows" example:"3650"`
	Dropped int      `json:"dropped" example:"2"`
}

// SummaryResponse is the descriptive statistics table of a city
type SummaryResponse struct {
	Count  int      `json:"count" example:"730"`
	Mean   *float64 `json:"mean" example:"9.7"`
	Std    *float64 `json:"std" example:"7.9"`
	Min    *float64 `json:"min" example:"-14.2"`
	Q25    *float64 `json:"q25" example:"3.1"`
	Median *float64 `json:"median" example:"9.5"`
	Q75    *float64 `json:"q75" example:"16.3"`
	Max    *float64 `json:"max" example:"31.0"`
}

// RecordResponse is a labeled historical observation
type RecordResponse struct {
	Timestamp    time.Time `json:"timestamp" example:"2010-01-01T00:00:00Z"`
	Season       string    `json:"season" example:"winter"`
	Temperature  *float64  `json:"temperature" example:"-1.5"`
	BaselineMean *float64  `json:"baseline_mean" example:"0.2"`
	BaselineStd  *float64  `json:"baseline_std" example:"4.9"`
	Anomaly      bool      `json:"anomaly" example:"false"`
}

// BaselineResponse is the mean and std of one group
type BaselineResponse struct {
	Season string   `json:"season,omitempty" example:"winter"`
	Month  int      `json:"month,omitempty" example:"6"`
	Mean   *float64 `json:"mean" example:"20.0"`
	Std    *float64 `json:"std" example:"3.0"`
	Count  int      `json:"count" example:"90"`
}

// LiveResponse is the comparison of the current temperature with the
// baseline of the current month
type LiveResponse struct {
	Status      string            `json:"status" example:"compared" enums:"compared,skipped,failed"`
	Reason      string            `json:"reason,omitempty" example:"live reading not requested"`
	Source      string            `json:"source,omitempty" example:"open-meteo"`
	Temperature *float64          `json:"temperature,omitempty" example:"24.0"`
	ObservedAt  *time.Time        `json:"observed_at,omitempty"`
	Month       int               `json:"month,omitempty" example:"6"`
	Multiplier  *float64          `json:"multiplier,omitempty" example:"1.0"`
	Baseline    *BaselineResponse `json:"baseline,omitempty"`
	Verdict     string            `json:"verdict,omitempty" example:"anomalous" enums:"normal,anomalous,insufficient_data"`
}

// AnalysisResponse represents the analysis of one city
type AnalysisResponse struct {
	ID                string             `json:"id" example:"5f0c8f9e-8a4b-4c2e-9d7e-1f2a3b4c5d6e"`
	GeneratedAt       time.Time          `json:"generated_at"`
	City              string             `json:"city" example:"Berlin"`
	Threshold         float64            `json:"threshold" example:"2.0"`
	AnomalyCount      int                `json:"anomaly_count" example:"12"`
	Summary           SummaryResponse    `json:"summary"`
	Records           []RecordResponse   `json:"records"`
	SeasonalBaselines []BaselineResponse `json:"seasonal_baselines"`
	MonthlyBaselines  []BaselineResponse `json:"monthly_baselines"`
	Live              LiveResponse       `json:"live"`
}

// ClassifyRequest is a single value to classify against a baseline
type ClassifyRequest struct {
	Value *float64 `json:"value" validate:"required" example:"15"`
	Mean  *float64 `json:"mean" validate:"required" example:"10"`
	// Std is null when the baseline has fewer than two samples.
	Std       anomaly.StdDev `json:"std" swaggertype:"number" example:"2"`
	Threshold *float64       `json:"threshold,omitempty" validate:"omitempty,gt=0" example:"2.0"`
	Policy    string         `json:"policy,omitempty" validate:"omitempty,oneof=historical live" example:"historical"`
}

// ClassifyResponse is the classification outcome
type ClassifyResponse struct {
	Anomaly   bool    `json:"anomaly" example:"true"`
	Threshold float64 `json:"threshold" example:"2.0"`
	Policy    string  `json:"policy" example:"historical"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func stdOrNil(s anomaly.StdDev) *float64 {
	if !s.Defined {
		return nil
	}
	return finite(s.Value)
}

func newAnalysisResponse(r *models.Report) AnalysisResponse {
	resp := AnalysisResponse{
		ID:           r.ID,
		GeneratedAt:  r.GeneratedAt,
		City:         r.City,
		Threshold:    r.Threshold,
		AnomalyCount: r.AnomalyCount,
		Summary: SummaryResponse{
			Count:  r.Summary.Count,
			Mean:   finite(r.Summary.Mean),
			Std:    stdOrNil(r.Summary.Std),
			Min:    finite(r.Summary.Min),
			Q25:    finite(r.Summary.Q25),
			Median: finite(r.Summary.Median),
			Q75:    finite(r.Summary.Q75),
			Max:    finite(r.Summary.Max),
		},
		Records:           make([]RecordResponse, 0, len(r.Records)),
		SeasonalBaselines: make([]BaselineResponse, 0, len(r.SeasonalBaselines)),
		MonthlyBaselines:  make([]BaselineResponse, 0, len(r.MonthlyBaselines)),
		Live:              newLiveResponse(r.Live),
	}

	for _, rec := range r.Records {
		resp.Records = append(resp.Records, RecordResponse{
			Timestamp:    rec.Timestamp,
			Season:       rec.Season,
			Temperature:  finite(rec.Value),
			BaselineMean: finite(rec.BaselineMean),
			BaselineStd:  stdOrNil(rec.BaselineStd),
			Anomaly:      rec.IsAnomaly,
		})
	}
	for _, b := range r.SeasonalBaselines {
		resp.SeasonalBaselines = append(resp.SeasonalBaselines, BaselineResponse{
			Season: b.Key.Season,
			Mean:   finite(b.Mean),
			Std:    stdOrNil(b.Std),
			Count:  b.Count,
		})
	}
	for _, b := range r.MonthlyBaselines {
		resp.MonthlyBaselines = append(resp.MonthlyBaselines, monthlyBaseline(b))
	}

	return resp
}

func monthlyBaseline(b anomaly.GroupBaseline[anomaly.MonthKey]) BaselineResponse {
	return BaselineResponse{
		Month: int(b.Key.Month),
		Mean:  finite(b.Mean),
		Std:   stdOrNil(b.Std),
		Count: b.Count,
	}
}

func newLiveResponse(live models.LiveComparison) LiveResponse {
	resp := LiveResponse{
		Status: string(live.Status),
		Reason: live.Reason,
	}

	if live.Reading != nil {
		resp.Source = live.Reading.RepositoryName
		resp.Temperature = finite(live.Reading.Temperature)
		observed := live.Reading.ObservedAt
		resp.ObservedAt = &observed
	}

	if v := live.Verdict; v != nil {
		resp.Month = int(v.Key.Month)
		resp.Multiplier = finite(v.Multiplier)
		resp.Verdict = string(v.Verdict)
		if v.Baseline != nil {
			b := monthlyBaseline(*v.Baseline)
			resp.Baseline = &b
		}
	}

	return resp
}
