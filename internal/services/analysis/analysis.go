package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"seasonal-anomaly/internal/anomaly"
	"seasonal-anomaly/internal/dataset"
	"seasonal-anomaly/internal/metrics"
	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/internal/repositories"
	"seasonal-anomaly/pkg/logger"
)

var (
	ErrUnknownCity      = errors.New("city not present in dataset")
	ErrInvalidThreshold = errors.New("threshold must be a positive number")
	ErrNoReading        = errors.New("no temperature repository returned a reading")
)

// Request selects a city of an uploaded dataset. Optional inputs are
// pointers; nil means absent.
type Request struct {
	City string
	// Threshold overrides the historical std multiplier.
	Threshold *float64
	// CurrentTemperature is a caller-supplied live reading. It takes
	// precedence over the repositories.
	CurrentTemperature *float64
	// Live enables fetching the live reading from the repositories.
	Live bool
}

// Service labels historical data and compares live readings.
type Service struct {
	repos      []repositories.TemperatureRepository
	thresholds anomaly.Thresholds
	l          *logger.Logger
	now        func() time.Time
}

func NewAnalysisService(repos []repositories.TemperatureRepository, thresholds anomaly.Thresholds, l *logger.Logger) *Service {
	return &Service{
		repos:      repos,
		thresholds: thresholds,
		l:          l,
		now:        time.Now,
	}
}

// WithClock replaces the clock that selects the current month.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Thresholds() anomaly.Thresholds {
	return s.thresholds
}

func (s *Service) Cities(ds *dataset.Dataset) []string {
	return ds.Cities()
}

// Analyze labels the dataset by (city, season), then builds the report of
// req.City: its labeled records, seasonal and monthly baselines, and the
// live comparison when a reading is available.
func (s *Service) Analyze(ctx context.Context, ds *dataset.Dataset, req Request) (*models.Report, error) {
	threshold := s.thresholds.Historical
	if req.Threshold != nil {
		if !(*req.Threshold > 0) {
			metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidThreshold
		}
		threshold = *req.Threshold
	}

	cityRecords := ds.ForCity(req.City)
	if len(cityRecords) == 0 {
		metrics.AnalysesTotal.WithLabelValues("unknown_city").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, req.City)
	}

	s.l.Info("starting analysis", map[string]any{
		"city":      req.City,
		"rows":      len(ds.Records),
		"cityRows":  len(cityRecords),
		"threshold": threshold,
	})

	// Baselines come from the whole dataset; only the city's rows are kept.
	labeled := anomaly.LabelBatch(ds.Records, anomaly.BySeason, threshold)
	cityLabeled := make([]anomaly.LabeledRecord, 0, len(cityRecords))
	for _, r := range labeled {
		if r.Location == req.City {
			cityLabeled = append(cityLabeled, r)
		}
	}
	slices.SortStableFunc(cityLabeled, func(a, b anomaly.LabeledRecord) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	monthly := anomaly.ComputeBaselines(cityRecords, anomaly.ByMonth)

	report := &models.Report{
		ID:           uuid.NewString(),
		GeneratedAt:  s.now().UTC(),
		City:         req.City,
		Threshold:    threshold,
		Summary:      anomaly.Describe(anomaly.Values(cityRecords)),
		Records:      cityLabeled,
		AnomalyCount: anomaly.CountAnomalies(cityLabeled),
		SeasonalBaselines: anomaly.SortedBaselines(
			anomaly.ComputeBaselines(cityRecords, anomaly.BySeason), anomaly.CompareSeasonKeys),
		MonthlyBaselines: anomaly.SortedBaselines(monthly, anomaly.CompareMonthKeys),
	}
	report.Live = s.compareLive(ctx, req, monthly)

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnomaliesDetectedTotal.Add(float64(report.AnomalyCount))

	s.l.Info("completed analysis", map[string]any{
		"id":         report.ID,
		"city":       req.City,
		"anomalies":  report.AnomalyCount,
		"liveStatus": report.Live.Status,
	})

	return report, nil
}

func (s *Service) compareLive(ctx context.Context, req Request, monthly map[anomaly.MonthKey]anomaly.GroupBaseline[anomaly.MonthKey]) models.LiveComparison {
	live := s.resolveReading(ctx, req)
	if live.Status != models.LiveStatusCompared {
		metrics.LiveVerdictsTotal.WithLabelValues(string(live.Status), "").Inc()
		return live
	}

	key := anomaly.MonthKey{Location: req.City, Month: s.now().Month()}
	verdict := anomaly.MonthlyVerdict(monthly, key, live.Reading.Temperature, s.thresholds.Live)
	live.Verdict = &verdict

	if verdict.Verdict == anomaly.VerdictInsufficientData {
		live.Reason = fmt.Sprintf("no historical data for %s", key.Month)
	}

	metrics.LiveVerdictsTotal.WithLabelValues(string(live.Status), string(verdict.Verdict)).Inc()

	return live
}

// resolveReading returns a comparison with Status compared and a Reading,
// or a skipped/failed comparison carrying the reason.
func (s *Service) resolveReading(ctx context.Context, req Request) models.LiveComparison {
	if req.CurrentTemperature != nil {
		return models.LiveComparison{
			Status: models.LiveStatusCompared,
			Reading: &models.CurrentReading{
				RepositoryName: "request",
				Location:       models.Coordinates{Name: req.City},
				Temperature:    *req.CurrentTemperature,
				ObservedAt:     s.now().UTC(),
			},
		}
	}

	if !req.Live {
		return models.LiveComparison{Status: models.LiveStatusSkipped, Reason: "live reading not requested"}
	}
	if len(s.repos) == 0 {
		return models.LiveComparison{Status: models.LiveStatusSkipped, Reason: "no temperature repositories configured"}
	}

	reading, err := s.FetchCurrent(ctx, req.City)
	if err != nil {
		return models.LiveComparison{Status: models.LiveStatusFailed, Reason: err.Error()}
	}

	return models.LiveComparison{Status: models.LiveStatusCompared, Reading: &reading}
}

// FetchCurrent queries every repository concurrently and returns the
// reading of the first repository, in configuration order, that succeeded.
func (s *Service) FetchCurrent(ctx context.Context, city string) (models.CurrentReading, error) {
	s.l.Info("starting current temperature fetch", map[string]any{
		"city":         city,
		"repositories": len(s.repos),
	})

	readings := make([]*models.CurrentReading, len(s.repos))
	failures := make([]error, len(s.repos))

	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i, repo := range s.repos {
		wg.Add(1)

		go func(i int, repo repositories.TemperatureRepository) {
			defer wg.Done()
			s.l.Debug("fetching current temperature", map[string]any{"repo": repo.Name(), "city": city})

			reading, err := fetchReading(ctx, repo, city)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.l.Warning("failed to fetch current temperature", map[string]any{"repo": repo.Name(), "err": err.Error()})
				failures[i] = fmt.Errorf("%s: %w", repo.Name(), err)
				return
			}
			readings[i] = &reading
		}(i, repo)
	}

	wg.Wait()

	for _, r := range readings {
		if r != nil {
			s.l.Info("fetched current temperature", map[string]any{
				"repo":        r.RepositoryName,
				"city":        city,
				"temperature": r.Temperature,
			})
			return *r, nil
		}
	}

	err := errors.Join(append([]error{ErrNoReading}, failures...)...)
	s.l.Error(err, map[string]any{"city": city})

	return models.CurrentReading{}, err
}

func fetchReading(ctx context.Context, repo repositories.TemperatureRepository, city string) (models.CurrentReading, error) {
	coords, err := repo.Locate(ctx, city)
	if err != nil {
		return models.CurrentReading{}, err
	}
	return repo.CurrentTemperature(ctx, coords)
}
