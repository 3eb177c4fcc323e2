package analysis_test

import (
	"context"
	"errors"
	"io"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-anomaly/internal/anomaly"
	"seasonal-anomaly/internal/dataset"
	"seasonal-anomaly/internal/metrics"
	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/internal/repositories"
	"seasonal-anomaly/internal/services/analysis"
	"seasonal-anomaly/pkg/logger"
)

// MockRepository implements TemperatureRepository for testing
type MockRepository struct {
	name        string
	temperature float64
	shouldFail  bool
	shouldDelay bool
	callCount   atomic.Int32
}

func (m *MockRepository) Name() string {
	return m.name
}

func (m *MockRepository) Locate(ctx context.Context, city string) (models.Coordinates, error) {
	m.callCount.Add(1)
	if m.shouldDelay {
		select {
		case <-ctx.Done():
			return models.Coordinates{}, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if m.shouldFail {
		return models.Coordinates{}, errors.New("mock repository error")
	}
	return models.Coordinates{Name: city, Lat: 1, Lon: 2}, nil
}

func (m *MockRepository) CurrentTemperature(ctx context.Context, coords models.Coordinates) (models.CurrentReading, error) {
	return models.CurrentReading{
		RepositoryName: m.name,
		Location:       coords,
		Temperature:    m.temperature,
		ObservedAt:     time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC),
	}, nil
}

func june() time.Time {
	return time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC)
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// testDataset has X winter values [0,2,4] (mean 2, std 2), X June values
// [17,20,23] (mean 20, std 3) and a second city.
func testDataset() *dataset.Dataset {
	return &dataset.Dataset{Records: []anomaly.Record{
		{Location: "X", Season: "winter", Value: 4, Timestamp: at("2020-01-03")},
		{Location: "X", Season: "winter", Value: 0, Timestamp: at("2020-01-01")},
		{Location: "X", Season: "winter", Value: 2, Timestamp: at("2020-01-02")},
		{Location: "X", Season: "summer", Value: 17, Timestamp: at("2019-06-10")},
		{Location: "X", Season: "summer", Value: 20, Timestamp: at("2020-06-10")},
		{Location: "X", Season: "summer", Value: 23, Timestamp: at("2021-06-10")},
		{Location: "Y", Season: "winter", Value: -10, Timestamp: at("2020-01-01")},
	}}
}

func newService(repos ...repositories.TemperatureRepository) *analysis.Service {
	return analysis.NewAnalysisService(repos, anomaly.DefaultThresholds(), logger.NewZapLogger("test-app", io.Discard)).
		WithClock(june)
}

func ptr(v float64) *float64 {
	return &v
}

func TestNewAnalysisService(t *testing.T) {
	service := newService(&MockRepository{name: "test-repo-1"})

	assert.NotNil(t, service)
	assert.Equal(t, anomaly.DefaultThresholds(), service.Thresholds())
	assert.Equal(t, []string{"X", "Y"}, service.Cities(testDataset()))
}

func TestAnalyze_HistoricalLabeling(t *testing.T) {
	service := newService()

	report, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X"})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "X", report.City)
	assert.Equal(t, 2.0, report.Threshold)
	assert.Equal(t, june(), report.GeneratedAt)

	require.Len(t, report.Records, 6)
	for i := 1; i < len(report.Records); i++ {
		assert.False(t, report.Records[i].Timestamp.Before(report.Records[i-1].Timestamp))
	}
	for _, r := range report.Records {
		assert.Equal(t, "X", r.Location)
	}
	assert.Equal(t, 0, report.AnomalyCount)

	require.Len(t, report.SeasonalBaselines, 2)
	assert.Equal(t, "summer", report.SeasonalBaselines[0].Key.Season)
	winter := report.SeasonalBaselines[1]
	assert.InDelta(t, 2.0, winter.Mean, 1e-9)
	assert.InDelta(t, 2.0, winter.Std.Value, 1e-9)

	require.Len(t, report.MonthlyBaselines, 2)
	assert.Equal(t, time.January, report.MonthlyBaselines[0].Key.Month)
	assert.Equal(t, time.June, report.MonthlyBaselines[1].Key.Month)

	assert.Equal(t, 6, report.Summary.Count)
	assert.Equal(t, 0.0, report.Summary.Min)
	assert.Equal(t, 23.0, report.Summary.Max)

	assert.Equal(t, models.LiveStatusSkipped, report.Live.Status)
	assert.Nil(t, report.Live.Verdict)
}

func TestAnalyze_ThresholdOverride(t *testing.T) {
	ds := testDataset()
	ds.Records = append(ds.Records,
		anomaly.Record{Location: "X", Season: "winter", Value: 9, Timestamp: at("2020-01-04")})
	service := newService()

	// winter [0,2,4,9]: mean 3.75, std ≈ 3.86; |9-3.75| = 5.25
	atDefault, err := service.Analyze(context.Background(), ds, analysis.Request{City: "X"})
	require.NoError(t, err)
	assert.Equal(t, 0, atDefault.AnomalyCount)

	atOne, err := service.Analyze(context.Background(), ds, analysis.Request{City: "X", Threshold: ptr(1.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, atOne.AnomalyCount)
	assert.Equal(t, 1.0, atOne.Threshold)
}

func TestAnalyze_InvalidThreshold(t *testing.T) {
	service := newService()

	for _, thr := range []float64{0, -1} {
		_, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X", Threshold: ptr(thr)})
		assert.ErrorIs(t, err, analysis.ErrInvalidThreshold)
	}
}

func TestAnalyze_UnknownCity(t *testing.T) {
	service := newService()

	_, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "Z"})
	assert.ErrorIs(t, err, analysis.ErrUnknownCity)

	_, err = service.Analyze(context.Background(), &dataset.Dataset{}, analysis.Request{City: "X"})
	assert.ErrorIs(t, err, analysis.ErrUnknownCity)
}

func TestAnalyze_LiveReadingUsesLiveThreshold(t *testing.T) {
	repo := &MockRepository{name: "repo", temperature: 24}
	service := newService(repo)

	report, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X", Live: true})
	require.NoError(t, err)

	live := report.Live
	require.Equal(t, models.LiveStatusCompared, live.Status)
	require.NotNil(t, live.Reading)
	assert.Equal(t, "repo", live.Reading.RepositoryName)
	require.NotNil(t, live.Verdict)
	assert.Equal(t, anomaly.VerdictAnomalous, live.Verdict.Verdict)
	assert.Equal(t, 1.0, live.Verdict.Multiplier)
	assert.InDelta(t, 20.0, live.Verdict.Baseline.Mean, 1e-9)
	assert.InDelta(t, 3.0, live.Verdict.Baseline.Std.Value, 1e-9)

	// the same reading under the historical multiplier is normal
	assert.False(t, anomaly.Classify(24, live.Verdict.Baseline.Mean, live.Verdict.Baseline.Std, report.Threshold))
}

func TestAnalyze_ExplicitCurrentTemperature(t *testing.T) {
	repo := &MockRepository{name: "repo", temperature: 100}
	service := newService(repo)

	report, err := service.Analyze(context.Background(), testDataset(),
		analysis.Request{City: "X", Live: true, CurrentTemperature: ptr(21)})
	require.NoError(t, err)

	assert.Equal(t, int32(0), repo.callCount.Load())
	assert.Equal(t, "request", report.Live.Reading.RepositoryName)
	assert.Equal(t, anomaly.VerdictNormal, report.Live.Verdict.Verdict)
}

func TestAnalyze_NoHistoryForCurrentMonth(t *testing.T) {
	service := newService().WithClock(func() time.Time {
		return time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	})

	report, err := service.Analyze(context.Background(), testDataset(),
		analysis.Request{City: "X", CurrentTemperature: ptr(21)})
	require.NoError(t, err)

	require.NotNil(t, report.Live.Verdict)
	assert.Equal(t, anomaly.VerdictInsufficientData, report.Live.Verdict.Verdict)
	assert.Nil(t, report.Live.Verdict.Baseline)
	assert.Contains(t, report.Live.Reason, "October")
}

func TestAnalyze_LiveFailureKeepsReport(t *testing.T) {
	service := newService(&MockRepository{name: "broken", shouldFail: true})

	report, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X", Live: true})
	require.NoError(t, err)

	assert.Len(t, report.Records, 6)
	assert.Equal(t, models.LiveStatusFailed, report.Live.Status)
	assert.Contains(t, report.Live.Reason, "mock repository error")
	assert.Nil(t, report.Live.Verdict)
}

func TestAnalyze_LiveWithoutRepositories(t *testing.T) {
	service := newService()

	report, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X", Live: true})
	require.NoError(t, err)
	assert.Equal(t, models.LiveStatusSkipped, report.Live.Status)
	assert.Equal(t, "no temperature repositories configured", report.Live.Reason)
}

func TestFetchCurrent_PriorityOrder(t *testing.T) {
	first := &MockRepository{name: "first", temperature: 10, shouldDelay: true}
	second := &MockRepository{name: "second", temperature: 20}
	service := newService(first, second)

	reading, err := service.FetchCurrent(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "first", reading.RepositoryName)
	assert.Equal(t, 10.0, reading.Temperature)
}

func TestFetchCurrent_FallsBackToNextRepository(t *testing.T) {
	service := newService(
		&MockRepository{name: "broken", shouldFail: true},
		&MockRepository{name: "working", temperature: 15},
	)

	reading, err := service.FetchCurrent(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "working", reading.RepositoryName)
}

func TestFetchCurrent_AllFailures(t *testing.T) {
	service := newService(
		&MockRepository{name: "failure-repo-1", shouldFail: true},
		&MockRepository{name: "failure-repo-2", shouldFail: true},
	)

	_, err := service.FetchCurrent(context.Background(), "X")
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrNoReading)
	assert.Contains(t, err.Error(), "failure-repo-1")
	assert.Contains(t, err.Error(), "failure-repo-2")
}

func TestFetchCurrent_ContextCancellation(t *testing.T) {
	service := newService(&MockRepository{name: "delayed-repo", shouldDelay: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.FetchCurrent(ctx, "X")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchCurrent_ConcurrentExecution(t *testing.T) {
	repos := []*MockRepository{
		{name: "fast-repo", temperature: 1, shouldDelay: true},
		{name: "medium-repo", temperature: 2, shouldDelay: true},
		{name: "slow-repo", temperature: 3, shouldDelay: true},
	}
	service := newService(repos[0], repos[1], repos[2])

	start := time.Now()
	_, err := service.FetchCurrent(context.Background(), "X")
	duration := time.Since(start)

	require.NoError(t, err)
	for _, r := range repos {
		assert.Equal(t, int32(1), r.callCount.Load())
	}
	assert.Less(t, duration, 250*time.Millisecond)
}

func TestAnalyze_MonthWithoutFiniteValues(t *testing.T) {
	ds := &dataset.Dataset{Records: []anomaly.Record{
		{Location: "X", Season: "winter", Value: 1, Timestamp: at("2020-01-01")},
		{Location: "X", Season: "summer", Value: math.NaN(), Timestamp: at("2020-06-10")},
		{Location: "X", Season: "summer", Value: math.NaN(), Timestamp: at("2021-06-10")},
	}}
	service := newService()

	report, err := service.Analyze(context.Background(), ds, analysis.Request{City: "X", CurrentTemperature: ptr(100)})
	require.NoError(t, err)

	live := report.Live
	assert.Equal(t, models.LiveStatusCompared, live.Status)
	require.NotNil(t, live.Verdict)
	assert.Equal(t, anomaly.VerdictInsufficientData, live.Verdict.Verdict)
	assert.Equal(t, "no historical data for June", live.Reason)
}

func TestAnalyze_AnomalyCounterHasNoCityLabel(t *testing.T) {
	service := newService()

	before := testutil.ToFloat64(metrics.AnomaliesDetectedTotal)
	report, err := service.Analyze(context.Background(), testDataset(), analysis.Request{City: "X", Threshold: ptr(0.9)})
	require.NoError(t, err)

	assert.Equal(t, 4, report.AnomalyCount)
	assert.InDelta(t, before+4, testutil.ToFloat64(metrics.AnomaliesDetectedTotal), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.AnomaliesDetectedTotal))
}
